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

package database

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/daocake/database/types"
	"github.com/blinklabs-io/gouroboros/cbor"
)

// CommitTimestamp returns the time in Unix milliseconds of the last
// read-write commit, or 0 for a database that has never been written
func (d *Database) CommitTimestamp() (int64, error) {
	txn := d.Transaction(false)
	defer txn.Release()
	data, err := d.blob.Get(txn.Blob(), types.CommitTimestampKey())
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get commit timestamp: %w", err)
	}
	var ts int64
	if _, err := cbor.Decode(data, &ts); err != nil {
		return 0, fmt.Errorf("failed to decode commit timestamp: %w", err)
	}
	return ts, nil
}

func (d *Database) updateCommitTimestamp(txn *Txn, timestamp int64) error {
	data, err := cbor.Encode(timestamp)
	if err != nil {
		return err
	}
	return d.blob.Set(txn.Blob(), types.CommitTimestampKey(), data)
}
