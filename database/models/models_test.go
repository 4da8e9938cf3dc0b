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

package models_test

import (
	"math/big"
	"testing"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdLength(t *testing.T) {
	_, err := models.NewId(make([]byte, 15))
	require.ErrorIs(t, err, models.ErrInvalidIdLength)
	_, err = models.NewId(nil)
	require.ErrorIs(t, err, models.ErrInvalidIdLength)

	id, err := models.NewId([]byte("0123456789abcdef"))
	require.NoError(t, err)
	assert.Equal(t, "30313233343536373839616263646566", id.String())

	parsed, err := models.ParseId(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.False(t, parsed.IsZero())
}

func TestParseIdInvalidHex(t *testing.T) {
	_, err := models.ParseId("zz")
	require.Error(t, err)
}

func TestProposalCborLargeAmount(t *testing.T) {
	amount, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	proposal := models.Proposal{
		Id:          models.Id{1},
		OrgId:       models.Id{2},
		Proposer:    lcommon.NewBlake2b224([]byte("0123456789012345678901234567")),
		EvidenceRef: "ipfs://evidence",
		RefNo:       "INV-1",
		Amount:      amount,
		Kind:        models.ProposalKindPayment,
	}
	data, err := cbor.Encode(&proposal)
	require.NoError(t, err)

	var decoded models.Proposal
	_, err = cbor.Decode(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, proposal.Id, decoded.Id)
	assert.Equal(t, proposal.Proposer, decoded.Proposer)
	assert.Equal(t, 0, amount.Cmp(decoded.Amount))
	assert.Equal(t, models.DecisionUndecided, decoded.Decision)
}

func TestVoteIdDeterministic(t *testing.T) {
	voterA := lcommon.NewBlake2b224(make([]byte, 28))
	voterB := lcommon.Blake2b224Hash([]byte("b"))
	first, err := models.VoteId(models.Id{1}, voterA)
	require.NoError(t, err)
	again, err := models.VoteId(models.Id{1}, voterA)
	require.NoError(t, err)
	other, err := models.VoteId(models.Id{1}, voterB)
	require.NoError(t, err)
	otherProposal, err := models.VoteId(models.Id{2}, voterA)
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.NotEqual(t, first, otherProposal)
}

func TestParseProposalKind(t *testing.T) {
	testDefs := []struct {
		input    string
		expected models.ProposalKind
	}{
		{"payment", models.ProposalKindPayment},
		{"new-member", models.ProposalKindNewMember},
		{"OrgRules", models.ProposalKindOrgRules},
	}
	for _, testDef := range testDefs {
		kind, err := models.ParseProposalKind(testDef.input)
		require.NoError(t, err)
		assert.Equal(t, testDef.expected, kind)
	}
	_, err := models.ParseProposalKind("bogus")
	assert.Error(t, err)
	assert.False(t, models.ProposalKind(7).Valid())
}
