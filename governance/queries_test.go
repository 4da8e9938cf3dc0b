// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package governance_test

import (
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/database/plugin/blob"
	"github.com/blinklabs-io/daocake/database/plugin/blob/badger"
	"github.com/blinklabs-io/daocake/database/plugin/blob/sqlite"
	"github.com/blinklabs-io/daocake/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberNames(t *testing.T, env *testEnv, orgId models.Id) []string {
	t.Helper()
	var ret []string
	for member, err := range env.state.MembersOfOrg(context.Background(), orgId.Bytes()) {
		require.NoError(t, err)
		ret = append(ret, member.Name)
	}
	return ret
}

func TestQueriesAreRepeatable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	bobId := env.admit(t, orgId, bob, alice)
	_, err := env.state.AddMemberOfOrg(ctx, carol, orgId.Bytes(), "Carol", nil)
	require.NoError(t, err)
	proposalId := env.propose(t, alice, orgId, models.ProposalKindPayment, 42)
	_, err = env.state.CastVote(ctx, bob, proposalId.Bytes(), false)
	require.NoError(t, err)

	first := memberNames(t, env, orgId)
	assert.Len(t, first, 3)
	assert.Equal(t, first, memberNames(t, env, orgId))

	// The same sequence value can be ranged over more than once
	votes := env.state.Votes(ctx, proposalId.Bytes())
	for range 2 {
		var voters []string
		for vote, err := range votes {
			require.NoError(t, err)
			voters = append(voters, vote.Voter.String())
		}
		assert.Equal(t, []string{bob.Principal.String()}, voters)
	}

	orgs := env.state.OrgsOfMember(ctx, bobId.Bytes())
	for range 2 {
		count := 0
		for org, err := range orgs {
			require.NoError(t, err)
			assert.Equal(t, orgId, org.Id)
			count++
		}
		assert.Equal(t, 1, count)
	}

	after, err := env.state.GetOrganisation(ctx, orgId.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint16(2), after.MemberCount)
}

func TestQueryEarlyBreak(t *testing.T) {
	env := newTestEnv(t)
	orgId := env.createOrg(t)
	env.admit(t, orgId, bob, alice)
	env.admit(t, orgId, carol, alice)
	for member, err := range env.state.MembersOfOrg(context.Background(), orgId.Bytes()) {
		require.NoError(t, err)
		require.NotNil(t, member)
		break
	}
	// The store is still usable after an abandoned scan
	assert.Len(t, memberNames(t, env, orgId), 3)
}

func TestOwings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	env.admit(t, orgId, bob, alice)
	env.propose(t, alice, orgId, models.ProposalKindPayment, 10)
	env.propose(t, bob, orgId, models.ProposalKindPayment, 20)
	env.propose(t, bob, orgId, models.ProposalKindPayment, 30)

	total := 0
	for range env.state.OwingsByOrg(ctx, orgId.Bytes()) {
		total++
	}
	// Includes bob's admission proposal
	assert.Equal(t, 4, total)

	var amounts []int64
	for proposal, err := range env.state.OwingsToUser(ctx, orgId.Bytes(), bob.Principal) {
		require.NoError(t, err)
		assert.Equal(t, bob.Principal, proposal.Proposer)
		if proposal.Kind == models.ProposalKindPayment {
			amounts = append(amounts, proposal.Amount.Int64())
		}
	}
	assert.ElementsMatch(t, []int64{20, 30}, amounts)

	for _, err := range env.state.OwingsToUser(ctx, orgId.Bytes(), governance.Caller{}.Principal) {
		require.ErrorIs(t, err, governance.ErrInvalidArgument)
	}
}

func TestMembershipsOf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	second, _, err := env.state.CreateOrganisation(ctx, bob, "Second", "Bob", nil, nil)
	require.NoError(t, err)
	_, err = env.state.AddMemberOfOrg(ctx, alice, second.Bytes(), "Alice in Second", nil)
	require.NoError(t, err)

	decisions := map[string]models.Decision{}
	for member, err := range env.state.MembershipsOf(ctx, alice.Principal) {
		require.NoError(t, err)
		decisions[member.Name] = member.Decision
	}
	assert.Equal(t, map[string]models.Decision{
		"Alice":           models.DecisionApproved,
		"Alice in Second": models.DecisionUndecided,
	}, decisions)

	// Only approved memberships carry organisations
	var orgs []models.Id
	for org, err := range env.state.OrgsOfMemberByPrincipal(ctx, alice.Principal) {
		require.NoError(t, err)
		orgs = append(orgs, org.Id)
	}
	assert.Equal(t, []models.Id{orgId}, orgs)
}

// Writes must not wait on a query that is still being ranged over
func TestWriteDuringOpenQuery(t *testing.T) {
	testDefs := []struct {
		name     string
		newStore func(t *testing.T) blob.BlobStore
	}{
		{
			name: "badger",
			newStore: func(t *testing.T) blob.BlobStore {
				store, err := badger.New(badger.WithDataDir(""), badger.WithGc(false))
				require.NoError(t, err)
				return store
			},
		},
		{
			name: "sqlite in memory",
			newStore: func(t *testing.T) blob.BlobStore {
				store, err := sqlite.New(sqlite.WithDataDir(""))
				require.NoError(t, err)
				return store
			},
		},
		{
			name: "sqlite on disk",
			newStore: func(t *testing.T) blob.BlobStore {
				store, err := sqlite.New(sqlite.WithDataDir(t.TempDir()))
				require.NoError(t, err)
				return store
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			env := newTestEnvWithStore(t, testDef.newStore(t))
			ctx := context.Background()
			orgId := env.createOrg(t)
			env.propose(t, alice, orgId, models.ProposalKindPayment, 10)

			done := make(chan error, 1)
			go func() {
				var err error
				for _, seqErr := range env.state.OwingsByOrg(ctx, orgId.Bytes()) {
					if seqErr != nil {
						err = seqErr
						break
					}
					_, err = env.state.AddMemberOfOrg(ctx, bob, orgId.Bytes(), "Bob", nil)
					break
				}
				done <- err
			}()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(10 * time.Second):
				t.Fatal("write blocked behind an open query")
			}

			member, err := env.state.IsMemberOfOrg(ctx, orgId.Bytes(), bob.Principal, false)
			require.NoError(t, err)
			assert.True(t, member)
		})
	}
}
