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

package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Limit reads to guard against pointing at a large file by accident
const maxKeyFileSize = 1 << 20

// keyFileEnvelope represents the JSON structure of a cardano-cli key file.
type keyFileEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// Key is a parsed payment or stake key file
type Key struct {
	Type        string
	Description string
	VKey        ed25519.PublicKey
	// Signing is set when the file held a signing key
	Signing bool
}

// Principal returns the key hash identifying the key holder
func (k *Key) Principal() lcommon.Blake2b224 {
	return PrincipalFromVKey(k.VKey)
}

// LoadPrincipalFile reads a key file and returns the principal it identifies
func LoadPrincipalFile(path string) (lcommon.Blake2b224, error) {
	key, err := LoadKeyFile(path)
	if err != nil {
		return lcommon.Blake2b224{}, err
	}
	return key.Principal(), nil
}

// LoadKeyFile loads a cardano-cli text envelope holding an ed25519 payment
// or stake key. Signing keys must not be readable by group or other
func LoadKeyFile(path string) (*Key, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file %q: %w", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxKeyFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %q: %w", path, err)
	}
	key, err := ParseKeyEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file %q: %w", path, err)
	}
	if key.Signing {
		if err := checkOpenFilePermissions(f); err != nil {
			return nil, err
		}
	}
	return key, nil
}

// ParseKeyEnvelope parses a cardano-cli format key file.
func ParseKeyEnvelope(fileBytes []byte) (*Key, error) {
	var env keyFileEnvelope
	if err := json.Unmarshal(fileBytes, &env); err != nil {
		return nil, fmt.Errorf("could not parse key file envelope: %w", err)
	}
	cborData, err := hex.DecodeString(env.CborHex)
	if err != nil {
		return nil, fmt.Errorf("could not decode key from hex: %w", err)
	}
	var keyBytes []byte
	if _, err := cbor.Decode(cborData, &keyBytes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key CBOR: %w", err)
	}
	key := &Key{
		Type:        env.Type,
		Description: env.Description,
	}
	switch env.Type {
	case "PaymentVerificationKeyShelley_ed25519",
		"StakeVerificationKeyShelley_ed25519":
		if len(keyBytes) != ed25519.PublicKeySize {
			return nil, invalidKeyLength(env.Type, ed25519.PublicKeySize, len(keyBytes))
		}
		key.VKey = ed25519.PublicKey(keyBytes)
	case "PaymentExtendedVerificationKeyShelley_ed25519_bip32",
		"StakeExtendedVerificationKeyShelley_ed25519_bip32":
		// Public key followed by chain code
		if len(keyBytes) != ed25519.PublicKeySize+32 {
			return nil, invalidKeyLength(env.Type, ed25519.PublicKeySize+32, len(keyBytes))
		}
		key.VKey = ed25519.PublicKey(keyBytes[:ed25519.PublicKeySize])
	case "PaymentSigningKeyShelley_ed25519",
		"StakeSigningKeyShelley_ed25519":
		if len(keyBytes) != ed25519.SeedSize {
			return nil, invalidKeyLength(env.Type, ed25519.SeedSize, len(keyBytes))
		}
		// Derive the vkey from the seed rather than trusting anything else
		priv := ed25519.NewKeyFromSeed(keyBytes)
		key.VKey = priv.Public().(ed25519.PublicKey)
		key.Signing = true
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, env.Type)
	}
	return key, nil
}

func invalidKeyLength(keyType string, want, got int) error {
	return fmt.Errorf(
		"invalid %s key bytes: expected %d, got %d",
		keyType,
		want,
		got,
	)
}
