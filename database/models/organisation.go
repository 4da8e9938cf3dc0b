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

import (
	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Organisation is the governed group and its vote threshold policy
type Organisation struct {
	cbor.StructAsArray
	Id              Id
	Name            string
	Creator         lcommon.Blake2b224
	MemberCount     uint16
	VoteForRequired uint16
}

// Member is a principal's membership record. Members other than an
// organisation's creator start out Undecided
type Member struct {
	cbor.StructAsArray
	Id        Id
	Name      string
	Principal lcommon.Blake2b224
	Decision  Decision
}
