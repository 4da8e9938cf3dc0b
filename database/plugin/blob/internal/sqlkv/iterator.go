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

package sqlkv

import (
	"bytes"
	"slices"
	"sort"

	"github.com/blinklabs-io/daocake/database/types"
)

type sliceIterator struct {
	err    error
	prefix []byte
	rows   []KeyValue
	pos    int
}

func (it *sliceIterator) Rewind() { it.pos = 0 }

// Seek moves to the first row at or after key. Rows are held in key order
func (it *sliceIterator) Seek(key []byte) {
	it.pos = sort.Search(len(it.rows), func(i int) bool {
		return bytes.Compare(it.rows[i].Key, key) >= 0
	})
}

func (it *sliceIterator) Valid() bool {
	return it.err == nil && it.pos < len(it.rows)
}

func (it *sliceIterator) ValidForPrefix(p []byte) bool {
	return it.Valid() && bytes.HasPrefix(it.rows[it.pos].Key, p)
}

func (it *sliceIterator) Next() { it.pos++ }

func (it *sliceIterator) Item() types.BlobItem {
	if !it.Valid() {
		return nil
	}
	return &sliceItem{row: it.rows[it.pos]}
}

func (it *sliceIterator) Close() { it.rows = nil }

func (it *sliceIterator) Err() error { return it.err }

type sliceItem struct {
	row KeyValue
}

func (i *sliceItem) Key() []byte {
	return slices.Clone(i.row.Key)
}

func (i *sliceItem) ValueCopy(dst []byte) ([]byte, error) {
	return append(dst[:0], i.row.Value...), nil
}
