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
	"math/big"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/event"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

const (
	NewOrganisationEventType    event.EventType = "governance.organisation.new"
	UpdateOrganisationEventType event.EventType = "governance.organisation.update"
	NewOrgMemberEventType       event.EventType = "governance.member"
	NewProposalEventType        event.EventType = "governance.proposal.new"
	VoteCastEventType           event.EventType = "governance.vote"
	VotingResolvedEventType     event.EventType = "governance.proposal.resolved"
)

// EventTypes lists every event type published by State
var EventTypes = []event.EventType{
	NewOrganisationEventType,
	UpdateOrganisationEventType,
	NewOrgMemberEventType,
	NewProposalEventType,
	VoteCastEventType,
	VotingResolvedEventType,
}

type NewOrganisationEvent struct {
	OrgId           models.Id
	Name            string
	CreatorName     string
	VoteForRequired uint16
}

// UpdateOrganisationEvent is published when an approved rule change sets a
// new vote threshold
type UpdateOrganisationEvent struct {
	OrgId           models.Id
	VoteForRequired uint16
}

// NewOrgMemberEvent is published when a member joins an organisation, first
// as Undecided when proposed and again as Approved on admission. The
// creator of an organisation is published once, already Approved
type NewOrgMemberEvent struct {
	OrgId    models.Id
	MemberId models.Id
	Name     string
	Decision models.Decision
}

type NewProposalEvent struct {
	ProposalId  models.Id
	OrgId       models.Id
	Proposer    lcommon.Blake2b224
	EvidenceRef string
	Amount      *big.Int
	Token       []byte
	Kind        models.ProposalKind
}

// VoteCastEvent is published for every recorded vote. Tally is the number
// of votes for the proposal when the vote triggered a tally, and 0 when it
// did not (votes against, and votes on already approved proposals)
type VoteCastEvent struct {
	ProposalId      models.Id
	OrgId           models.Id
	Voter           lcommon.Blake2b224
	VoteFor         bool
	Tally           uint16
	VoteForRequired uint16
}

type VotingResolvedEvent struct {
	ProposalId models.Id
	OrgId      models.Id
	Proposer   lcommon.Blake2b224
	Amount     *big.Int
	Decision   models.Decision
	Kind       models.ProposalKind
}
