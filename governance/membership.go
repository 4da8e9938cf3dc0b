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
	"math"
	"math/big"

	"github.com/blinklabs-io/daocake/database"
	"github.com/blinklabs-io/daocake/database/models"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// CreateOrganisation creates an organisation with a vote threshold of 1 and
// makes the caller its first, already approved, member. Either identifier
// may be nil to have one generated
func (s *State) CreateOrganisation(
	ctx context.Context,
	caller Caller,
	name string,
	creatorName string,
	orgId []byte,
	memberId []byte,
) (models.Id, models.Id, error) {
	var org models.Organisation
	var member models.Member
	err := s.update(ctx, "create_organisation", func(txn *database.Txn, emit emitFunc) error {
		if err := validateCaller(caller); err != nil {
			return err
		}
		var err error
		org.Id, err = s.resolveId(
			"organisation id",
			orgId,
			[]byte("organisation"),
			caller.Principal.Bytes(),
		)
		if err != nil {
			return err
		}
		member.Id, err = s.resolveId(
			"member id",
			memberId,
			org.Id.Bytes(),
			caller.Principal.Bytes(),
		)
		if err != nil {
			return err
		}
		existing, err := s.db.GetOrganisation(org.Id, txn)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: organisation %s", ErrDuplicateId, org.Id)
		}
		if err := s.checkMemberIdFree(member.Id, txn); err != nil {
			return err
		}
		org.Name = name
		org.Creator = caller.Principal
		org.MemberCount = 1
		org.VoteForRequired = 1
		member.Name = creatorName
		member.Principal = caller.Principal
		member.Decision = models.DecisionApproved
		if err := s.db.SetOrganisation(&org, txn); err != nil {
			return err
		}
		if err := s.db.SetMember(&member, txn); err != nil {
			return err
		}
		if err := s.db.AddOrgMember(org.Id, member.Id, txn); err != nil {
			return err
		}
		if err := s.db.AddMemberOrg(member.Id, org.Id, txn); err != nil {
			return err
		}
		if err := s.db.AddPrincipalMember(caller.Principal, member.Id, txn); err != nil {
			return err
		}
		emit(NewOrgMemberEventType, NewOrgMemberEvent{
			OrgId:    org.Id,
			MemberId: member.Id,
			Name:     creatorName,
			Decision: models.DecisionApproved,
		})
		emit(NewOrganisationEventType, NewOrganisationEvent{
			OrgId:           org.Id,
			Name:            name,
			CreatorName:     creatorName,
			VoteForRequired: org.VoteForRequired,
		})
		return nil
	})
	if err != nil {
		return models.Id{}, models.Id{}, err
	}
	s.config.Logger.Debug(
		"created organisation",
		"component", "governance",
		"org_id", org.Id.String(),
		"member_id", member.Id.String(),
	)
	return org.Id, member.Id, nil
}

// AddMemberOfOrg nominates the caller as a member of an organisation. The
// member starts out Undecided, and a NewMember proposal sharing the
// member's id is raised for the existing members to vote on
func (s *State) AddMemberOfOrg(
	ctx context.Context,
	caller Caller,
	orgId []byte,
	name string,
	memberId []byte,
) (models.Id, error) {
	var member models.Member
	var oid models.Id
	err := s.update(ctx, "add_member", func(txn *database.Txn, emit emitFunc) error {
		if err := validateCaller(caller); err != nil {
			return err
		}
		var err error
		oid, err = parseId("organisation id", orgId)
		if err != nil {
			return err
		}
		org, err := s.db.GetOrganisation(oid, txn)
		if err != nil {
			return err
		}
		if org == nil {
			return fmt.Errorf("%w: %s", ErrOrgNotFound, oid)
		}
		existing, err := s.voterMembershipOf(oid, caller.Principal, txn)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf(
				"%w: caller is already member %s of organisation %s",
				ErrDuplicateId,
				existing.Id,
				oid,
			)
		}
		member.Id, err = s.resolveId(
			"member id",
			memberId,
			oid.Bytes(),
			caller.Principal.Bytes(),
		)
		if err != nil {
			return err
		}
		if err := s.checkMemberIdFree(member.Id, txn); err != nil {
			return err
		}
		proposal, err := s.db.GetProposal(member.Id, txn)
		if err != nil {
			return err
		}
		if proposal != nil {
			return fmt.Errorf("%w: proposal %s", ErrDuplicateId, member.Id)
		}
		member.Name = name
		member.Principal = caller.Principal
		member.Decision = models.DecisionUndecided
		if err := s.db.SetMember(&member, txn); err != nil {
			return err
		}
		if err := s.db.AddOrgMember(oid, member.Id, txn); err != nil {
			return err
		}
		if err := s.db.AddPrincipalMember(caller.Principal, member.Id, txn); err != nil {
			return err
		}
		proposal = &models.Proposal{
			Id:       member.Id,
			OrgId:    oid,
			Proposer: caller.Principal,
			RefNo:    name,
			Amount:   new(big.Int),
			Token:    caller.Token,
			Decision: models.DecisionUndecided,
			Kind:     models.ProposalKindNewMember,
		}
		if err := s.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		if err := s.db.AddOrgProposal(oid, proposal.Id, txn); err != nil {
			return err
		}
		emit(NewOrgMemberEventType, NewOrgMemberEvent{
			OrgId:    oid,
			MemberId: member.Id,
			Name:     name,
			Decision: models.DecisionUndecided,
		})
		emit(NewProposalEventType, NewProposalEvent{
			ProposalId:  proposal.Id,
			OrgId:       oid,
			Proposer:    caller.Principal,
			EvidenceRef: proposal.EvidenceRef,
			Amount:      proposal.Amount,
			Token:       proposal.Token,
			Kind:        proposal.Kind,
		})
		return nil
	})
	if err != nil {
		return models.Id{}, err
	}
	s.config.Logger.Debug(
		"proposed new member",
		"component", "governance",
		"org_id", oid.String(),
		"member_id", member.Id.String(),
	)
	return member.Id, nil
}

func (s *State) checkMemberIdFree(memberId models.Id, txn *database.Txn) error {
	existing, err := s.db.GetMember(memberId, txn)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: member %s", ErrDuplicateId, memberId)
	}
	return nil
}

// approveMember admits a pending member once its NewMember proposal has
// reached quorum. The caller persists org
func (s *State) approveMember(
	org *models.Organisation,
	memberId models.Id,
	txn *database.Txn,
	emit emitFunc,
) error {
	member, err := s.db.GetMember(memberId, txn)
	if err != nil {
		return err
	}
	if member == nil {
		return invariant(
			"approved new member proposal %s has no member record",
			memberId,
		)
	}
	if org.MemberCount == math.MaxUint16 {
		return invariant("member count overflow in organisation %s", org.Id)
	}
	member.Decision = models.DecisionApproved
	if err := s.db.SetMember(member, txn); err != nil {
		return err
	}
	if err := s.db.AddMemberOrg(member.Id, org.Id, txn); err != nil {
		return err
	}
	org.MemberCount++
	emit(NewOrgMemberEventType, NewOrgMemberEvent{
		OrgId:    org.Id,
		MemberId: member.Id,
		Name:     member.Name,
		Decision: models.DecisionApproved,
	})
	return nil
}

// updateVoteThreshold applies an approved rule change. The caller persists
// org
func (s *State) updateVoteThreshold(
	org *models.Organisation,
	voteForRequired *big.Int,
	emit emitFunc,
) error {
	if !validVoteThreshold(voteForRequired) {
		return invariant(
			"approved rule change for organisation %s has threshold %v",
			org.Id,
			voteForRequired,
		)
	}
	org.VoteForRequired = uint16(voteForRequired.Uint64())
	emit(UpdateOrganisationEventType, UpdateOrganisationEvent{
		OrgId:           org.Id,
		VoteForRequired: org.VoteForRequired,
	})
	return nil
}

func validVoteThreshold(v *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(big.NewInt(math.MaxUint16)) <= 0
}

// voterMembershipOf returns the caller's member record for an organisation,
// or nil if the caller has none. The record is returned whatever its
// decision; callers check for approval
func (s *State) voterMembershipOf(
	orgId models.Id,
	principal lcommon.Blake2b224,
	txn *database.Txn,
) (*models.Member, error) {
	memberIds, err := collect(s.db.MembersOfPrincipal(principal, txn))
	if err != nil {
		return nil, err
	}
	if s.config.SingleMembership && len(memberIds) > 1 {
		memberIds = memberIds[:1]
	}
	for _, memberId := range memberIds {
		ok, err := s.db.IsOrgMember(orgId, memberId, txn)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		member, err := s.db.GetMember(memberId, txn)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, invariant(
				"member index for organisation %s references missing member %s",
				orgId,
				memberId,
			)
		}
		return member, nil
	}
	return nil, nil
}
