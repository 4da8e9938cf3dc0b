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

import "fmt"

// Decision is the approval state shared by members and proposals
type Decision uint8

const (
	DecisionUndecided Decision = 0
	DecisionApproved  Decision = 1
	DecisionRejected  Decision = 2
)

func (d Decision) String() string {
	switch d {
	case DecisionUndecided:
		return "Undecided"
	case DecisionApproved:
		return "Approved"
	case DecisionRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Decision(%d)", uint8(d))
	}
}

// ProposalKind selects the side effect applied when a proposal is approved
type ProposalKind uint8

const (
	ProposalKindPayment   ProposalKind = 0
	ProposalKindNewMember ProposalKind = 1
	ProposalKindOrgRules  ProposalKind = 2
)

func (k ProposalKind) String() string {
	switch k {
	case ProposalKindPayment:
		return "Payment"
	case ProposalKindNewMember:
		return "NewMember"
	case ProposalKindOrgRules:
		return "OrgRules"
	default:
		return fmt.Sprintf("ProposalKind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the known proposal kinds
func (k ProposalKind) Valid() bool {
	return k <= ProposalKindOrgRules
}

// ParseProposalKind accepts the CLI spellings of a proposal kind
func ParseProposalKind(s string) (ProposalKind, error) {
	switch s {
	case "payment", "Payment":
		return ProposalKindPayment, nil
	case "new-member", "NewMember":
		return ProposalKindNewMember, nil
	case "org-rules", "OrgRules":
		return ProposalKindOrgRules, nil
	default:
		return 0, fmt.Errorf("unknown proposal kind: %s", s)
	}
}
