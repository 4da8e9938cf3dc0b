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

package database

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/database/types"
	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// getRecord decodes the record stored under key. A missing key yields
// nil without an error
func getRecord[T any](txn *Txn, key []byte) (*T, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	blob := txn.DB().Blob()
	if blob == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	data, err := blob.Get(txn.Blob(), key)
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ret := new(T)
	if _, err := cbor.Decode(data, ret); err != nil {
		return nil, fmt.Errorf("decode record %x: %w", key, err)
	}
	return ret, nil
}

func setRecord(txn *Txn, key []byte, record any) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	blob := txn.DB().Blob()
	if blob == nil {
		return types.ErrBlobStoreUnavailable
	}
	data, err := cbor.Encode(record)
	if err != nil {
		return fmt.Errorf("encode record %x: %w", key, err)
	}
	return blob.Set(txn.Blob(), key, data)
}

// GetOrganisation returns the organisation with the given id, or nil if
// there is none
func (d *Database) GetOrganisation(
	orgId models.Id,
	txn *Txn,
) (*models.Organisation, error) {
	return getRecord[models.Organisation](
		txn,
		types.OrganisationKey(orgId.Bytes()),
	)
}

func (d *Database) SetOrganisation(org *models.Organisation, txn *Txn) error {
	return setRecord(txn, types.OrganisationKey(org.Id.Bytes()), org)
}

// GetMember returns the member with the given id, or nil if there is none
func (d *Database) GetMember(memberId models.Id, txn *Txn) (*models.Member, error) {
	return getRecord[models.Member](txn, types.MemberKey(memberId.Bytes()))
}

func (d *Database) SetMember(member *models.Member, txn *Txn) error {
	return setRecord(txn, types.MemberKey(member.Id.Bytes()), member)
}

// GetProposal returns the proposal with the given id, or nil if there is none
func (d *Database) GetProposal(
	proposalId models.Id,
	txn *Txn,
) (*models.Proposal, error) {
	return getRecord[models.Proposal](
		txn,
		types.ProposalKey(proposalId.Bytes()),
	)
}

func (d *Database) SetProposal(proposal *models.Proposal, txn *Txn) error {
	return setRecord(txn, types.ProposalKey(proposal.Id.Bytes()), proposal)
}

// GetVote returns the vote with the given id, or nil if there is none
func (d *Database) GetVote(
	voteId lcommon.Blake2b256,
	txn *Txn,
) (*models.Vote, error) {
	return getRecord[models.Vote](txn, types.VoteKey(voteId.Bytes()))
}

func (d *Database) SetVote(vote *models.Vote, txn *Txn) error {
	return setRecord(txn, types.VoteKey(vote.Id.Bytes()), vote)
}
