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
	"strconv"

	"github.com/blinklabs-io/daocake/database"
	"github.com/blinklabs-io/daocake/database/models"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// CastVote records the caller's vote on a proposal. A vote for an undecided
// proposal re-tallies every vote recorded against it and resolves the
// proposal once the tally reaches the organisation's threshold
func (s *State) CastVote(
	ctx context.Context,
	caller Caller,
	proposalId []byte,
	voteFor bool,
) (lcommon.Blake2b256, error) {
	var vote models.Vote
	var resolved *models.Proposal
	err := s.update(ctx, "cast_vote", func(txn *database.Txn, emit emitFunc) error {
		if err := validateCaller(caller); err != nil {
			return err
		}
		pid, err := parseId("proposal id", proposalId)
		if err != nil {
			return err
		}
		proposal, err := s.db.GetProposal(pid, txn)
		if err != nil {
			return err
		}
		if proposal == nil {
			return fmt.Errorf("%w: %s", ErrProposalNotFound, pid)
		}
		member, err := s.voterMembershipOf(proposal.OrgId, caller.Principal, txn)
		if err != nil {
			return err
		}
		if member == nil || member.Decision != models.DecisionApproved {
			return fmt.Errorf(
				"%w: caller is not an approved member of organisation %s",
				ErrNotAuthorized,
				proposal.OrgId,
			)
		}
		if caller.Principal == proposal.Proposer {
			return ErrSelfVoteForbidden
		}
		vote.Id, err = models.VoteId(pid, caller.Principal)
		if err != nil {
			return err
		}
		existing, err := s.db.GetVote(vote.Id, txn)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyVoted
		}
		org, err := s.db.GetOrganisation(proposal.OrgId, txn)
		if err != nil {
			return err
		}
		if org == nil {
			return invariant(
				"proposal %s references missing organisation %s",
				pid,
				proposal.OrgId,
			)
		}
		vote.ProposalId = pid
		vote.Voter = caller.Principal
		vote.VoteFor = voteFor
		vote.Token = caller.Token
		if err := s.db.SetVote(&vote, txn); err != nil {
			return err
		}
		if err := s.db.AddProposalVote(pid, vote.Id, txn); err != nil {
			return err
		}
		cast := VoteCastEvent{
			ProposalId:      pid,
			OrgId:           org.Id,
			Voter:           caller.Principal,
			VoteFor:         voteFor,
			VoteForRequired: org.VoteForRequired,
		}
		if !voteFor || proposal.Decision != models.DecisionUndecided {
			emit(VoteCastEventType, cast)
			return nil
		}
		tally, err := s.tally(pid, txn)
		if err != nil {
			return err
		}
		cast.Tally = tally
		emit(VoteCastEventType, cast)
		if tally < org.VoteForRequired {
			return nil
		}
		if err := s.resolve(org, proposal, txn, emit); err != nil {
			return err
		}
		resolved = proposal
		return nil
	})
	if err != nil {
		return lcommon.Blake2b256{}, err
	}
	s.metrics.votes.WithLabelValues(strconv.FormatBool(voteFor)).Inc()
	if resolved != nil {
		s.metrics.proposalsResolved.WithLabelValues(resolved.Kind.String()).Inc()
		s.config.Logger.Info(
			"proposal approved",
			"component", "governance",
			"proposal_id", resolved.Id.String(),
			"org_id", resolved.OrgId.String(),
			"kind", resolved.Kind.String(),
		)
	}
	return vote.Id, nil
}

// tally counts the votes for a proposal from its full vote index
func (s *State) tally(proposalId models.Id, txn *database.Txn) (uint16, error) {
	// Collect ids first; the store allows one open iterator per transaction
	voteIds, err := collect(s.db.VotesOfProposal(proposalId, txn))
	if err != nil {
		return 0, err
	}
	var count uint16
	for _, voteId := range voteIds {
		vote, err := s.db.GetVote(voteId, txn)
		if err != nil {
			return 0, err
		}
		if vote == nil {
			return 0, invariant(
				"vote index for proposal %s references missing vote %s",
				proposalId,
				voteId,
			)
		}
		if vote.VoteFor && count < math.MaxUint16 {
			count++
		}
	}
	return count, nil
}

// resolve approves a proposal that has reached quorum and applies its
// kind-specific effect
func (s *State) resolve(
	org *models.Organisation,
	proposal *models.Proposal,
	txn *database.Txn,
	emit emitFunc,
) error {
	proposal.Decision = models.DecisionApproved
	if err := s.db.SetProposal(proposal, txn); err != nil {
		return err
	}
	switch proposal.Kind {
	case models.ProposalKindNewMember:
		if err := s.approveMember(org, proposal.Id, txn, emit); err != nil {
			return err
		}
		if err := s.db.SetOrganisation(org, txn); err != nil {
			return err
		}
	case models.ProposalKindOrgRules:
		if err := s.updateVoteThreshold(org, proposal.Amount, emit); err != nil {
			return err
		}
		if err := s.db.SetOrganisation(org, txn); err != nil {
			return err
		}
	case models.ProposalKindPayment:
		// Approval is the payout signal
	default:
		return invariant(
			"proposal %s has unknown kind %d",
			proposal.Id,
			proposal.Kind,
		)
	}
	emit(VotingResolvedEventType, VotingResolvedEvent{
		ProposalId: proposal.Id,
		OrgId:      org.Id,
		Proposer:   proposal.Proposer,
		Amount:     proposal.Amount,
		Decision:   proposal.Decision,
		Kind:       proposal.Kind,
	})
	return nil
}
