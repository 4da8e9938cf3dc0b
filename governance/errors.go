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
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument covers malformed identifiers and missing or out of
	// range inputs
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrOrgNotFound      = fmt.Errorf("organisation %w", ErrNotFound)
	ErrMemberNotFound   = fmt.Errorf("member %w", ErrNotFound)
	ErrProposalNotFound = fmt.Errorf("proposal %w", ErrNotFound)
	ErrVoteNotFound     = fmt.Errorf("vote %w", ErrNotFound)
	ErrDuplicateId      = errors.New("identifier already exists")
	// ErrNotAuthorized means the caller is not an approved member of the
	// organisation
	ErrNotAuthorized     = errors.New("not authorized")
	ErrSelfVoteForbidden = errors.New("cannot vote on own proposal")
	ErrAlreadyVoted      = errors.New("already voted on this proposal")
	// ErrInvariantViolation indicates corrupt or inconsistent stored state
	// rather than a caller mistake
	ErrInvariantViolation = errors.New("invariant violation")
)

// errorKind maps an operation error to a metric label
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateId):
		return "duplicate_id"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrSelfVoteForbidden):
		return "self_vote"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "error"
	}
}
