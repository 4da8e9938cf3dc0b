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
	"math/big"

	"github.com/blinklabs-io/daocake/database"
	"github.com/blinklabs-io/daocake/database/models"
)

// ProposalParams describes a proposal raised through CreateProposal
type ProposalParams struct {
	OrgId []byte
	Kind  models.ProposalKind
	// Amount is the payment amount for ProposalKindPayment and the proposed
	// vote threshold for ProposalKindOrgRules
	Amount      *big.Int
	EvidenceRef string
	RefNo       string
	// Id is optional; one is generated when nil
	Id []byte
}

// CreateProposal raises a payment or rule change proposal. The caller must be
// an approved member of the organisation. New member proposals are only
// created by AddMemberOfOrg
func (s *State) CreateProposal(
	ctx context.Context,
	caller Caller,
	params ProposalParams,
) (models.Id, error) {
	var proposal models.Proposal
	err := s.update(ctx, "create_proposal", func(txn *database.Txn, emit emitFunc) error {
		if err := validateCaller(caller); err != nil {
			return err
		}
		orgId, err := parseId("organisation id", params.OrgId)
		if err != nil {
			return err
		}
		if err := validateProposal(params); err != nil {
			return err
		}
		org, err := s.db.GetOrganisation(orgId, txn)
		if err != nil {
			return err
		}
		if org == nil {
			return fmt.Errorf("%w: %s", ErrOrgNotFound, orgId)
		}
		member, err := s.voterMembershipOf(orgId, caller.Principal, txn)
		if err != nil {
			return err
		}
		if member == nil || member.Decision != models.DecisionApproved {
			return fmt.Errorf(
				"%w: caller is not an approved member of organisation %s",
				ErrNotAuthorized,
				orgId,
			)
		}
		proposal.Id, err = s.resolveId(
			"proposal id",
			params.Id,
			orgId.Bytes(),
			caller.Principal.Bytes(),
			[]byte(params.RefNo),
		)
		if err != nil {
			return err
		}
		existing, err := s.db.GetProposal(proposal.Id, txn)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: proposal %s", ErrDuplicateId, proposal.Id)
		}
		proposal.OrgId = orgId
		proposal.Proposer = caller.Principal
		proposal.EvidenceRef = params.EvidenceRef
		proposal.RefNo = params.RefNo
		proposal.Amount = new(big.Int).Set(params.Amount)
		proposal.Token = caller.Token
		proposal.Decision = models.DecisionUndecided
		proposal.Kind = params.Kind
		if err := s.db.SetProposal(&proposal, txn); err != nil {
			return err
		}
		if err := s.db.AddOrgProposal(orgId, proposal.Id, txn); err != nil {
			return err
		}
		emit(NewProposalEventType, NewProposalEvent{
			ProposalId:  proposal.Id,
			OrgId:       orgId,
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
		"created proposal",
		"component", "governance",
		"proposal_id", proposal.Id.String(),
		"org_id", proposal.OrgId.String(),
		"kind", proposal.Kind.String(),
	)
	return proposal.Id, nil
}

func validateProposal(params ProposalParams) error {
	if params.Amount == nil {
		return fmt.Errorf("%w: amount is required", ErrInvalidArgument)
	}
	switch params.Kind {
	case models.ProposalKindPayment:
		if params.Amount.Sign() < 0 {
			return fmt.Errorf("%w: payment amount is negative", ErrInvalidArgument)
		}
	case models.ProposalKindOrgRules:
		if !validVoteThreshold(params.Amount) {
			return fmt.Errorf(
				"%w: vote threshold %s is outside [1, 65535]",
				ErrInvalidArgument,
				params.Amount,
			)
		}
	case models.ProposalKindNewMember:
		return fmt.Errorf(
			"%w: new member proposals are raised by adding a member",
			ErrInvalidArgument,
		)
	default:
		return fmt.Errorf(
			"%w: unknown proposal kind %d",
			ErrInvalidArgument,
			params.Kind,
		)
	}
	return nil
}
