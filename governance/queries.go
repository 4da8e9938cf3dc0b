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

package governance

import (
	"context"
	"fmt"
	"iter"

	"github.com/blinklabs-io/daocake/database"
	"github.com/blinklabs-io/daocake/database/models"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"go.opentelemetry.io/otel/codes"
)

// collect drains an index scan so the caller can issue further reads in
// the same transaction
func collect[K any](seq iter.Seq2[K, error]) ([]K, error) {
	var ret []K
	for k, err := range seq {
		if err != nil {
			return nil, err
		}
		ret = append(ret, k)
	}
	return ret, nil
}

func failSeq[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// lookupSeq resolves the keys returned by ids into records. Each range
// opens its own read-only transaction, so the sequence may be ranged over
// any number of times
func lookupSeq[K fmt.Stringer, T any](
	s *State,
	ctx context.Context,
	op string,
	ids func(*database.Txn) ([]K, error),
	get func(K, *database.Txn) (*T, error),
	keep func(*T) bool,
) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_, span := s.tracer.Start(ctx, "governance.query."+op)
		defer span.End()
		txn := s.db.Transaction(false)
		defer txn.Release()
		fail := func(err error) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			yield(nil, err)
		}
		keys, err := ids(txn)
		if err != nil {
			fail(err)
			return
		}
		for _, key := range keys {
			record, err := get(key, txn)
			if err != nil {
				fail(err)
				return
			}
			if record == nil {
				fail(invariant("%s: index references missing record %s", op, key))
				return
			}
			if keep != nil && !keep(record) {
				continue
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// view runs fn in a read-only transaction
func (s *State) view(
	ctx context.Context,
	op string,
	fn func(*database.Txn) error,
) error {
	_, span := s.tracer.Start(ctx, "governance.query."+op)
	defer span.End()
	txn := s.db.Transaction(false)
	defer txn.Release()
	if err := fn(txn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *State) GetOrganisation(
	ctx context.Context,
	orgId []byte,
) (*models.Organisation, error) {
	id, err := parseId("organisation id", orgId)
	if err != nil {
		return nil, err
	}
	var org *models.Organisation
	err = s.view(ctx, "get_organisation", func(txn *database.Txn) error {
		var err error
		org, err = s.db.GetOrganisation(id, txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrgNotFound, id)
	}
	return org, nil
}

func (s *State) GetMember(ctx context.Context, memberId []byte) (*models.Member, error) {
	id, err := parseId("member id", memberId)
	if err != nil {
		return nil, err
	}
	var member *models.Member
	err = s.view(ctx, "get_member", func(txn *database.Txn) error {
		var err error
		member, err = s.db.GetMember(id, txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return member, nil
}

func (s *State) GetProposal(
	ctx context.Context,
	proposalId []byte,
) (*models.Proposal, error) {
	id, err := parseId("proposal id", proposalId)
	if err != nil {
		return nil, err
	}
	var proposal *models.Proposal
	err = s.view(ctx, "get_proposal", func(txn *database.Txn) error {
		var err error
		proposal, err = s.db.GetProposal(id, txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, fmt.Errorf("%w: %s", ErrProposalNotFound, id)
	}
	return proposal, nil
}

// GetVote returns the vote cast by voter on a proposal
func (s *State) GetVote(
	ctx context.Context,
	proposalId []byte,
	voter lcommon.Blake2b224,
) (*models.Vote, error) {
	id, err := parseId("proposal id", proposalId)
	if err != nil {
		return nil, err
	}
	voteId, err := models.VoteId(id, voter)
	if err != nil {
		return nil, err
	}
	var vote *models.Vote
	err = s.view(ctx, "get_vote", func(txn *database.Txn) error {
		var err error
		vote, err = s.db.GetVote(voteId, txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return nil, fmt.Errorf("%w: %s", ErrVoteNotFound, voteId)
	}
	return vote, nil
}

// Votes yields every vote recorded on a proposal, for and against
func (s *State) Votes(ctx context.Context, proposalId []byte) iter.Seq2[*models.Vote, error] {
	id, err := parseId("proposal id", proposalId)
	if err != nil {
		return failSeq[*models.Vote](err)
	}
	return lookupSeq(
		s, ctx, "votes",
		func(txn *database.Txn) ([]lcommon.Blake2b256, error) {
			return collect(s.db.VotesOfProposal(id, txn))
		},
		s.db.GetVote,
		nil,
	)
}

// MembersOfOrg yields every member of an organisation, including members
// still awaiting approval
func (s *State) MembersOfOrg(
	ctx context.Context,
	orgId []byte,
) iter.Seq2[*models.Member, error] {
	id, err := parseId("organisation id", orgId)
	if err != nil {
		return failSeq[*models.Member](err)
	}
	return lookupSeq(
		s, ctx, "members_of_org",
		func(txn *database.Txn) ([]models.Id, error) {
			return collect(s.db.MembersOfOrg(id, txn))
		},
		s.db.GetMember,
		nil,
	)
}

// OrgsOfMember yields the organisations a member has been approved into
func (s *State) OrgsOfMember(
	ctx context.Context,
	memberId []byte,
) iter.Seq2[*models.Organisation, error] {
	id, err := parseId("member id", memberId)
	if err != nil {
		return failSeq[*models.Organisation](err)
	}
	return lookupSeq(
		s, ctx, "orgs_of_member",
		func(txn *database.Txn) ([]models.Id, error) {
			return collect(s.db.OrgsOfMember(id, txn))
		},
		s.db.GetOrganisation,
		nil,
	)
}

// principalMemberIds returns the member ids held by a principal, limited
// to the first in single membership mode
func (s *State) principalMemberIds(
	principal lcommon.Blake2b224,
	txn *database.Txn,
) ([]models.Id, error) {
	memberIds, err := collect(s.db.MembersOfPrincipal(principal, txn))
	if err != nil {
		return nil, err
	}
	if s.config.SingleMembership && len(memberIds) > 1 {
		memberIds = memberIds[:1]
	}
	return memberIds, nil
}

// MembershipsOf yields the member records held by a principal
func (s *State) MembershipsOf(
	ctx context.Context,
	principal lcommon.Blake2b224,
) iter.Seq2[*models.Member, error] {
	return lookupSeq(
		s, ctx, "memberships_of",
		func(txn *database.Txn) ([]models.Id, error) {
			return s.principalMemberIds(principal, txn)
		},
		s.db.GetMember,
		nil,
	)
}

// OrgsOfMemberByPrincipal yields the organisations a principal has been
// approved into
func (s *State) OrgsOfMemberByPrincipal(
	ctx context.Context,
	principal lcommon.Blake2b224,
) iter.Seq2[*models.Organisation, error] {
	return lookupSeq(
		s, ctx, "orgs_of_principal",
		func(txn *database.Txn) ([]models.Id, error) {
			memberIds, err := s.principalMemberIds(principal, txn)
			if err != nil {
				return nil, err
			}
			var orgIds []models.Id
			for _, memberId := range memberIds {
				ids, err := collect(s.db.OrgsOfMember(memberId, txn))
				if err != nil {
					return nil, err
				}
				orgIds = append(orgIds, ids...)
			}
			return orgIds, nil
		},
		s.db.GetOrganisation,
		nil,
	)
}

// IsMemberOfOrg reports whether a principal holds a member record in an
// organisation. With approvedOnly set, pending members are not counted
func (s *State) IsMemberOfOrg(
	ctx context.Context,
	orgId []byte,
	principal lcommon.Blake2b224,
	approvedOnly bool,
) (bool, error) {
	id, err := parseId("organisation id", orgId)
	if err != nil {
		return false, err
	}
	var ret bool
	err = s.view(ctx, "is_member_of_org", func(txn *database.Txn) error {
		member, err := s.voterMembershipOf(id, principal, txn)
		if err != nil {
			return err
		}
		ret = member != nil &&
			(!approvedOnly || member.Decision == models.DecisionApproved)
		return nil
	})
	return ret, err
}

// OwingsByOrg yields every proposal raised in an organisation
func (s *State) OwingsByOrg(
	ctx context.Context,
	orgId []byte,
) iter.Seq2[*models.Proposal, error] {
	return s.owings(ctx, "owings_by_org", orgId, nil)
}

// OwingsToUser yields the proposals raised in an organisation by principal
func (s *State) OwingsToUser(
	ctx context.Context,
	orgId []byte,
	principal lcommon.Blake2b224,
) iter.Seq2[*models.Proposal, error] {
	if principal == (lcommon.Blake2b224{}) {
		return failSeq[*models.Proposal](
			fmt.Errorf("%w: principal is required", ErrInvalidArgument),
		)
	}
	return s.owings(ctx, "owings_to_user", orgId, &principal)
}

func (s *State) owings(
	ctx context.Context,
	op string,
	orgId []byte,
	proposer *lcommon.Blake2b224,
) iter.Seq2[*models.Proposal, error] {
	id, err := parseId("organisation id", orgId)
	if err != nil {
		return failSeq[*models.Proposal](err)
	}
	var keep func(*models.Proposal) bool
	if proposer != nil {
		keep = func(p *models.Proposal) bool {
			return p.Proposer == *proposer
		}
	}
	return lookupSeq(
		s, ctx, op,
		func(txn *database.Txn) ([]models.Id, error) {
			return collect(s.db.ProposalsOfOrg(id, txn))
		},
		s.db.GetProposal,
		keep,
	)
}
