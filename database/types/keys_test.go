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

package types_test

import (
	"bytes"
	"testing"

	"github.com/blinklabs-io/daocake/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexKeysShareScanPrefix(t *testing.T) {
	orgId := bytes.Repeat([]byte{0x01}, 16)
	memberId := bytes.Repeat([]byte{0x02}, 16)
	prefix := types.OrgMemberIndexKey(orgId, nil)
	key := types.OrgMemberIndexKey(orgId, memberId)
	require.True(t, bytes.HasPrefix(key, prefix))
	assert.Equal(t, memberId, types.IndexSuffix(key, prefix))
	assert.Len(t, key, 33)
}

func TestIndexSuffixWrongPrefix(t *testing.T) {
	orgId := bytes.Repeat([]byte{0x01}, 16)
	otherOrgId := bytes.Repeat([]byte{0x03}, 16)
	key := types.OrgProposalIndexKey(orgId, bytes.Repeat([]byte{0x04}, 16))
	assert.Nil(t, types.IndexSuffix(key, types.OrgProposalIndexKey(otherOrgId, nil)))
}

func TestKeyPrefixesDistinct(t *testing.T) {
	id := bytes.Repeat([]byte{0xFF}, 16)
	keys := [][]byte{
		types.OrganisationKey(id),
		types.MemberKey(id),
		types.ProposalKey(id),
		types.VoteKey(id),
		types.OrgMemberIndexKey(id, id),
		types.MemberOrgIndexKey(id, id),
		types.PrincipalMemberIndexKey(id, id),
		types.OrgProposalIndexKey(id, id),
		types.ProposalVoteIndexKey(id, id),
		types.CommitTimestampKey(),
	}
	seen := make(map[byte]bool)
	for _, k := range keys {
		assert.False(t, seen[k[0]], "duplicate prefix 0x%x", k[0])
		seen[k[0]] = true
	}
}
