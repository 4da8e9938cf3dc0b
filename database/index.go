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
	"iter"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/database/types"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Index entries have no value; only the presence of the key matters
var indexValue = []byte{}

func putIndex(txn *Txn, key []byte) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	blob := txn.DB().Blob()
	if blob == nil {
		return types.ErrBlobStoreUnavailable
	}
	return blob.Set(txn.Blob(), key, indexValue)
}

func hasIndex(txn *Txn, key []byte) (bool, error) {
	if txn == nil {
		return false, types.ErrNilTxn
	}
	blob := txn.DB().Blob()
	if blob == nil {
		return false, types.ErrBlobStoreUnavailable
	}
	if _, err := blob.Get(txn.Blob(), key); err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// scanIndex yields the part of each index key following prefix, in key
// order. The iterator is closed when the sequence ends or the caller stops
// ranging
func scanIndex(txn *Txn, prefix []byte) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if txn == nil {
			yield(nil, types.ErrNilTxn)
			return
		}
		blob := txn.DB().Blob()
		if blob == nil {
			yield(nil, types.ErrBlobStoreUnavailable)
			return
		}
		it := blob.NewIterator(
			txn.Blob(),
			types.BlobIteratorOptions{Prefix: prefix},
		)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if item == nil {
				continue
			}
			if !yield(types.IndexSuffix(item.Key(), prefix), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// scanIds is scanIndex for indices whose trailing component is an Id
func scanIds(txn *Txn, prefix []byte) iter.Seq2[models.Id, error] {
	return func(yield func(models.Id, error) bool) {
		for suffix, err := range scanIndex(txn, prefix) {
			if err != nil {
				yield(models.Id{}, err)
				return
			}
			id, err := models.NewId(suffix)
			if err != nil {
				yield(models.Id{}, fmt.Errorf("malformed index key under %x: %w", prefix, err))
				return
			}
			if !yield(id, nil) {
				return
			}
		}
	}
}

// AddOrgMember records memberId under the org's member index
func (d *Database) AddOrgMember(orgId, memberId models.Id, txn *Txn) error {
	return putIndex(txn, types.OrgMemberIndexKey(orgId.Bytes(), memberId.Bytes()))
}

// IsOrgMember reports whether memberId is in the org's member index
func (d *Database) IsOrgMember(orgId, memberId models.Id, txn *Txn) (bool, error) {
	return hasIndex(txn, types.OrgMemberIndexKey(orgId.Bytes(), memberId.Bytes()))
}

// MembersOfOrg yields the member ids indexed under an organisation
func (d *Database) MembersOfOrg(orgId models.Id, txn *Txn) iter.Seq2[models.Id, error] {
	return scanIds(txn, types.OrgMemberIndexKey(orgId.Bytes(), nil))
}

// AddMemberOrg records orgId under the member's organisation index
func (d *Database) AddMemberOrg(memberId, orgId models.Id, txn *Txn) error {
	return putIndex(txn, types.MemberOrgIndexKey(memberId.Bytes(), orgId.Bytes()))
}

// OrgsOfMember yields the organisation ids indexed under a member
func (d *Database) OrgsOfMember(memberId models.Id, txn *Txn) iter.Seq2[models.Id, error] {
	return scanIds(txn, types.MemberOrgIndexKey(memberId.Bytes(), nil))
}

// AddPrincipalMember records memberId under the principal's member index
func (d *Database) AddPrincipalMember(
	principal lcommon.Blake2b224,
	memberId models.Id,
	txn *Txn,
) error {
	return putIndex(
		txn,
		types.PrincipalMemberIndexKey(principal.Bytes(), memberId.Bytes()),
	)
}

// MembersOfPrincipal yields the member ids held by a principal
func (d *Database) MembersOfPrincipal(
	principal lcommon.Blake2b224,
	txn *Txn,
) iter.Seq2[models.Id, error] {
	return scanIds(txn, types.PrincipalMemberIndexKey(principal.Bytes(), nil))
}

// AddOrgProposal records proposalId under the org's proposal index
func (d *Database) AddOrgProposal(orgId, proposalId models.Id, txn *Txn) error {
	return putIndex(
		txn,
		types.OrgProposalIndexKey(orgId.Bytes(), proposalId.Bytes()),
	)
}

// ProposalsOfOrg yields the proposal ids indexed under an organisation
func (d *Database) ProposalsOfOrg(orgId models.Id, txn *Txn) iter.Seq2[models.Id, error] {
	return scanIds(txn, types.OrgProposalIndexKey(orgId.Bytes(), nil))
}

// AddProposalVote records voteId under the proposal's vote index
func (d *Database) AddProposalVote(
	proposalId models.Id,
	voteId lcommon.Blake2b256,
	txn *Txn,
) error {
	return putIndex(
		txn,
		types.ProposalVoteIndexKey(proposalId.Bytes(), voteId.Bytes()),
	)
}

// VotesOfProposal yields the vote ids indexed under a proposal
func (d *Database) VotesOfProposal(
	proposalId models.Id,
	txn *Txn,
) iter.Seq2[lcommon.Blake2b256, error] {
	prefix := types.ProposalVoteIndexKey(proposalId.Bytes(), nil)
	return func(yield func(lcommon.Blake2b256, error) bool) {
		for suffix, err := range scanIndex(txn, prefix) {
			if err != nil {
				yield(lcommon.Blake2b256{}, err)
				return
			}
			if len(suffix) != lcommon.Blake2b256Size {
				yield(
					lcommon.Blake2b256{},
					fmt.Errorf("malformed vote index key under %x", prefix),
				)
				return
			}
			if !yield(lcommon.NewBlake2b256(suffix), nil) {
				return
			}
		}
	}
}
