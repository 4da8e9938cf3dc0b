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

// Package identity derives the caller principal used by governance
// operations from cardano-cli key files or hex strings.
package identity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

var (
	ErrInsecureFileMode   = errors.New("insecure file permissions")
	ErrUnsupportedKeyType = errors.New("unsupported key type")
	ErrInvalidPrincipal   = errors.New("invalid principal")
)

// ParsePrincipal decodes a hex-encoded 28-byte key hash
func ParsePrincipal(s string) (lcommon.Blake2b224, error) {
	data, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return lcommon.Blake2b224{}, fmt.Errorf("%w: %w", ErrInvalidPrincipal, err)
	}
	if len(data) != lcommon.Blake2b224Size {
		return lcommon.Blake2b224{}, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidPrincipal,
			lcommon.Blake2b224Size,
			len(data),
		)
	}
	return lcommon.NewBlake2b224(data), nil
}

// PrincipalFromVKey returns the key hash of an ed25519 verification key,
// which is the principal of whoever holds the matching signing key
func PrincipalFromVKey(vkey []byte) lcommon.Blake2b224 {
	return lcommon.Blake2b224Hash(vkey)
}
