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
	"math/big"
	"testing"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAmount(v int64) *big.Int {
	return big.NewInt(v)
}

func TestPaymentQuorumScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	env.admit(t, orgId, bob, alice)
	env.admit(t, orgId, carol, alice)
	env.admit(t, orgId, dave, alice)
	env.setThreshold(t, orgId, 2, bob)

	_, resolvedCh := env.bus.Subscribe(governance.VotingResolvedEventType)
	_, castCh := env.bus.Subscribe(governance.VoteCastEventType)
	proposalId := env.propose(t, alice, orgId, models.ProposalKindPayment, 100)

	_, err := env.state.CastVote(ctx, bob, proposalId.Bytes(), true)
	require.NoError(t, err)
	proposal, err := env.state.GetProposal(ctx, proposalId.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.DecisionUndecided, proposal.Decision)

	_, err = env.state.CastVote(ctx, carol, proposalId.Bytes(), true)
	require.NoError(t, err)
	proposal, err = env.state.GetProposal(ctx, proposalId.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.DecisionApproved, proposal.Decision)
	assert.Equal(t, 0, proposal.Amount.Cmp(big.NewInt(100)))

	// A late vote is recorded but changes nothing
	_, err = env.state.CastVote(ctx, dave, proposalId.Bytes(), true)
	require.NoError(t, err)

	casts := drain(castCh)
	require.Len(t, casts, 3)
	var tallies []uint16
	for _, evt := range casts {
		tallies = append(tallies, evt.Data.(governance.VoteCastEvent).Tally)
	}
	assert.Equal(t, []uint16{1, 2, 0}, tallies)

	resolved := drain(resolvedCh)
	require.Len(t, resolved, 1)
	res := resolved[0].Data.(governance.VotingResolvedEvent)
	assert.Equal(t, proposalId, res.ProposalId)
	assert.Equal(t, alice.Principal, res.Proposer)
	assert.Equal(t, models.DecisionApproved, res.Decision)

	count := 0
	for vote, err := range env.state.Votes(ctx, proposalId.Bytes()) {
		require.NoError(t, err)
		assert.True(t, vote.VoteFor)
		count++
	}
	assert.Equal(t, 3, count)
	assert.InDelta(t, 1, env.counterValue(t, "daocake_governance_proposals_resolved_total", map[string]string{
		"kind": "Payment",
	}), 0)
}

func TestOrgRulesChangesThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	voters := []governance.Caller{bob, carol, dave, erin, frank}
	for _, c := range voters {
		env.admit(t, orgId, c, alice)
	}
	_, updateCh := env.bus.Subscribe(governance.UpdateOrganisationEventType)
	env.setThreshold(t, orgId, 5, bob)
	updates := drain(updateCh)
	require.Len(t, updates, 1)
	assert.Equal(t, uint16(5), updates[0].Data.(governance.UpdateOrganisationEvent).VoteForRequired)

	proposalId := env.propose(t, alice, orgId, models.ProposalKindPayment, 1)
	for i, voter := range voters {
		_, err := env.state.CastVote(ctx, voter, proposalId.Bytes(), true)
		require.NoError(t, err)
		proposal, err := env.state.GetProposal(ctx, proposalId.Bytes())
		require.NoError(t, err)
		if i < len(voters)-1 {
			assert.Equal(t, models.DecisionUndecided, proposal.Decision, "after %d votes", i+1)
		} else {
			assert.Equal(t, models.DecisionApproved, proposal.Decision)
		}
	}
}

func TestVotesAgainstNeverResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	env.admit(t, orgId, bob, alice)
	env.admit(t, orgId, carol, alice)
	proposalId := env.propose(t, alice, orgId, models.ProposalKindPayment, 100)

	_, castCh := env.bus.Subscribe(governance.VoteCastEventType)
	_, err := env.state.CastVote(ctx, bob, proposalId.Bytes(), false)
	require.NoError(t, err)
	proposal, err := env.state.GetProposal(ctx, proposalId.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.DecisionUndecided, proposal.Decision)
	casts := drain(castCh)
	require.Len(t, casts, 1)
	assert.Equal(t, uint16(0), casts[0].Data.(governance.VoteCastEvent).Tally)

	// Votes against do not count toward the tally
	_, err = env.state.CastVote(ctx, carol, proposalId.Bytes(), true)
	require.NoError(t, err)
	casts = drain(castCh)
	require.Len(t, casts, 1)
	assert.Equal(t, uint16(1), casts[0].Data.(governance.VoteCastEvent).Tally)

	vote, err := env.state.GetVote(ctx, proposalId.Bytes(), bob.Principal)
	require.NoError(t, err)
	assert.False(t, vote.VoteFor)
}

func TestAlreadyVotedLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	env.admit(t, orgId, bob, alice)
	env.admit(t, orgId, carol, alice)
	env.setThreshold(t, orgId, 2, bob)
	proposalId := env.propose(t, alice, orgId, models.ProposalKindPayment, 100)

	_, err := env.state.CastVote(ctx, bob, proposalId.Bytes(), true)
	require.NoError(t, err)
	_, err = env.state.CastVote(ctx, bob, proposalId.Bytes(), true)
	require.ErrorIs(t, err, governance.ErrAlreadyVoted)
	_, err = env.state.CastVote(ctx, bob, proposalId.Bytes(), false)
	require.ErrorIs(t, err, governance.ErrAlreadyVoted)

	proposal, err := env.state.GetProposal(ctx, proposalId.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.DecisionUndecided, proposal.Decision)
	count := 0
	for range env.state.Votes(ctx, proposalId.Bytes()) {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestSelfVoteForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	proposalId := env.propose(t, alice, orgId, models.ProposalKindPayment, 100)
	_, err := env.state.CastVote(ctx, alice, proposalId.Bytes(), true)
	require.ErrorIs(t, err, governance.ErrSelfVoteForbidden)
}

func TestNonMembersCannotVoteOrPropose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	proposalId := env.propose(t, alice, orgId, models.ProposalKindPayment, 100)

	_, err := env.state.CastVote(ctx, bob, proposalId.Bytes(), true)
	require.ErrorIs(t, err, governance.ErrNotAuthorized)
	_, err = env.state.CreateProposal(ctx, bob, governance.ProposalParams{
		OrgId:  orgId.Bytes(),
		Kind:   models.ProposalKindPayment,
		Amount: newAmount(1),
	})
	require.ErrorIs(t, err, governance.ErrNotAuthorized)

	// Pending members are no better off
	_, err = env.state.AddMemberOfOrg(ctx, bob, orgId.Bytes(), "Bob", nil)
	require.NoError(t, err)
	_, err = env.state.CastVote(ctx, bob, proposalId.Bytes(), true)
	require.ErrorIs(t, err, governance.ErrNotAuthorized)
	_, err = env.state.CreateProposal(ctx, bob, governance.ProposalParams{
		OrgId:  orgId.Bytes(),
		Kind:   models.ProposalKindPayment,
		Amount: newAmount(1),
	})
	require.ErrorIs(t, err, governance.ErrNotAuthorized)
}

func TestCreateProposalValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	orgId := env.createOrg(t)
	testDefs := []struct {
		name   string
		kind   models.ProposalKind
		amount *big.Int
	}{
		{name: "new member kind", kind: models.ProposalKindNewMember, amount: newAmount(0)},
		{name: "unknown kind", kind: models.ProposalKind(7), amount: newAmount(1)},
		{name: "negative payment", kind: models.ProposalKindPayment, amount: newAmount(-1)},
		{name: "zero threshold", kind: models.ProposalKindOrgRules, amount: newAmount(0)},
		{name: "threshold overflow", kind: models.ProposalKindOrgRules, amount: newAmount(65536)},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := env.state.CreateProposal(ctx, alice, governance.ProposalParams{
				OrgId:  orgId.Bytes(),
				Kind:   testDef.kind,
				Amount: testDef.amount,
			})
			require.ErrorIs(t, err, governance.ErrInvalidArgument)
		})
	}

	id := env.propose(t, alice, orgId, models.ProposalKindPayment, 0)
	_, err := env.state.CreateProposal(ctx, alice, governance.ProposalParams{
		OrgId:  orgId.Bytes(),
		Kind:   models.ProposalKindPayment,
		Amount: newAmount(1),
		Id:     id.Bytes(),
	})
	require.ErrorIs(t, err, governance.ErrDuplicateId)
}
