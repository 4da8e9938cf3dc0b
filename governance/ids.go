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
	"crypto/rand"
	"fmt"
	"io"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/gouroboros/cbor"
	"golang.org/x/crypto/blake2b"
)

const idSeedSize = 32

// IdGenerator produces identifiers for records created without an explicit
// id. The fields describe the record being created
type IdGenerator interface {
	NewId(fields ...[]byte) (models.Id, error)
}

// RandomIdGenerator hashes the context fields together with a random seed
// using BLAKE2b-128
type RandomIdGenerator struct {
	reader io.Reader
}

// NewRandomIdGenerator returns an IdGenerator seeded from reader, or from
// crypto/rand when reader is nil
func NewRandomIdGenerator(reader io.Reader) *RandomIdGenerator {
	if reader == nil {
		reader = rand.Reader
	}
	return &RandomIdGenerator{reader: reader}
}

func (g *RandomIdGenerator) NewId(fields ...[]byte) (models.Id, error) {
	seed := make([]byte, idSeedSize)
	if _, err := io.ReadFull(g.reader, seed); err != nil {
		return models.Id{}, fmt.Errorf("read id seed: %w", err)
	}
	items := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		items = append(items, f)
	}
	items = append(items, seed)
	data, err := cbor.Encode(items)
	if err != nil {
		return models.Id{}, err
	}
	hasher, err := blake2b.New(models.IdSize, nil)
	if err != nil {
		return models.Id{}, err
	}
	hasher.Write(data)
	return models.NewId(hasher.Sum(nil))
}
