//go:build !windows

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

package identity_test

import (
	"os"
	"testing"

	"github.com/blinklabs-io/daocake/internal/identity"
	"github.com/stretchr/testify/require"
)

func TestInsecureSigningKeyRejected(t *testing.T) {
	skeyPath := writeKeyFile(t, "payment.skey", envelope(t, "PaymentSigningKeyShelley_ed25519", testSeed))
	require.NoError(t, os.Chmod(skeyPath, 0o644))
	_, err := identity.LoadKeyFile(skeyPath)
	require.ErrorIs(t, err, identity.ErrInsecureFileMode)

	// Verification keys are public
	vkeyPath := writeKeyFile(t, "payment.vkey", envelope(t, "PaymentVerificationKeyShelley_ed25519", make([]byte, 32)))
	require.NoError(t, os.Chmod(vkeyPath, 0o644))
	_, err = identity.LoadKeyFile(vkeyPath)
	require.NoError(t, err)
}
