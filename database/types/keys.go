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

package types

import (
	"bytes"
	"slices"
)

// Key prefixes for the governance key space. Each primary record and each
// index lives under its own single-byte prefix, followed by fixed-width
// identifiers so that prefix scans never overlap
const (
	ProposalKeyPrefix          byte = 0x00
	OrgProposalIndexPrefix     byte = 0x01
	VoteKeyPrefix              byte = 0x05
	ProposalVoteIndexPrefix    byte = 0x06
	PrincipalMemberIndexPrefix byte = 0x90
	OrganisationKeyPrefix      byte = 0xAA
	OrgMemberIndexPrefix       byte = 0xAB
	MemberKeyPrefix            byte = 0xAC
	MemberOrgIndexPrefix       byte = 0xAD
)

const (
	commitTimestampKeyPrefix byte = 0xFE
	commitTimestampKeySuffix      = "commit_timestamp"
)

func prefixedKey(prefix byte, parts ...[]byte) []byte {
	size := 1
	for _, p := range parts {
		size += len(p)
	}
	key := make([]byte, 0, size)
	key = append(key, prefix)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func OrganisationKey(orgId []byte) []byte {
	return prefixedKey(OrganisationKeyPrefix, orgId)
}

func MemberKey(memberId []byte) []byte {
	return prefixedKey(MemberKeyPrefix, memberId)
}

func ProposalKey(proposalId []byte) []byte {
	return prefixedKey(ProposalKeyPrefix, proposalId)
}

func VoteKey(voteId []byte) []byte {
	return prefixedKey(VoteKeyPrefix, voteId)
}

// OrgMemberIndexKey builds an org->member index key. Passing a nil memberId
// yields the scan prefix for all members of the org
func OrgMemberIndexKey(orgId, memberId []byte) []byte {
	return prefixedKey(OrgMemberIndexPrefix, orgId, memberId)
}

// MemberOrgIndexKey builds a member->org index key
func MemberOrgIndexKey(memberId, orgId []byte) []byte {
	return prefixedKey(MemberOrgIndexPrefix, memberId, orgId)
}

// PrincipalMemberIndexKey builds a principal->member index key
func PrincipalMemberIndexKey(principal, memberId []byte) []byte {
	return prefixedKey(PrincipalMemberIndexPrefix, principal, memberId)
}

// OrgProposalIndexKey builds an org->proposal index key
func OrgProposalIndexKey(orgId, proposalId []byte) []byte {
	return prefixedKey(OrgProposalIndexPrefix, orgId, proposalId)
}

// ProposalVoteIndexKey builds a proposal->vote index key
func ProposalVoteIndexKey(proposalId, voteId []byte) []byte {
	return prefixedKey(ProposalVoteIndexPrefix, proposalId, voteId)
}

// CommitTimestampKey is where backends record the time of the last commit
func CommitTimestampKey() []byte {
	return slices.Concat(
		[]byte{commitTimestampKeyPrefix},
		[]byte(commitTimestampKeySuffix),
	)
}

// IndexSuffix strips the scan prefix from an index key, returning the
// trailing identifier. It returns nil if key does not start with prefix
func IndexSuffix(key, prefix []byte) []byte {
	if !bytes.HasPrefix(key, prefix) {
		return nil
	}
	return slices.Clone(key[len(prefix):])
}
