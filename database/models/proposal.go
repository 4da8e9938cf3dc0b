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

package models

import (
	"math/big"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Proposal is a governance action awaiting a quorum of votes. For
// ProposalKindOrgRules the Amount carries the proposed vote threshold
type Proposal struct {
	cbor.StructAsArray
	Id          Id
	OrgId       Id
	Proposer    lcommon.Blake2b224
	EvidenceRef string
	RefNo       string
	Amount      *big.Int
	Token       []byte
	Decision    Decision
	Kind        ProposalKind
}

// Vote is a single member's decision on a proposal. Its Id is derived from
// the proposal and voter, so each pair has at most one vote
type Vote struct {
	cbor.StructAsArray
	Id         lcommon.Blake2b256
	ProposalId Id
	Voter      lcommon.Blake2b224
	VoteFor    bool
	Token      []byte
}

// VoteId returns the deterministic vote identifier for a proposal and voter
func VoteId(proposalId Id, voter lcommon.Blake2b224) (lcommon.Blake2b256, error) {
	data, err := cbor.Encode([]any{proposalId.Bytes(), voter.Bytes()})
	if err != nil {
		return lcommon.Blake2b256{}, err
	}
	return lcommon.Blake2b256Hash(data), nil
}
