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
	"encoding/hex"
	"errors"
	"fmt"
)

// IdSize is the length in bytes of organisation, member and proposal
// identifiers
const IdSize = 16

var ErrInvalidIdLength = errors.New("identifier must be 16 bytes")

// Id identifies an organisation, member or proposal. Members and their
// admission proposals share the same Id
type Id [IdSize]byte

// NewId copies an identifier from a byte slice, which must be exactly
// IdSize bytes long
func NewId(data []byte) (Id, error) {
	var ret Id
	if len(data) != IdSize {
		return ret, fmt.Errorf("%w: got %d", ErrInvalidIdLength, len(data))
	}
	copy(ret[:], data)
	return ret, nil
}

// ParseId decodes a hex-encoded identifier
func ParseId(s string) (Id, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Id{}, fmt.Errorf("decode identifier: %w", err)
	}
	return NewId(data)
}

func (i Id) Bytes() []byte {
	return i[:]
}

func (i Id) String() string {
	return hex.EncodeToString(i[:])
}

func (i Id) IsZero() bool {
	return i == Id{}
}
