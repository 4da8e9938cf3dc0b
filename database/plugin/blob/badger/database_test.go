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

package badger_test

import (
	"testing"

	"github.com/blinklabs-io/daocake/database/plugin/blob/badger"
	"github.com/blinklabs-io/daocake/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dataDir string) *badger.BlobStoreBadger {
	t.Helper()
	store, err := badger.New(badger.WithDataDir(dataDir), badger.WithGc(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSetGetCommit(t *testing.T) {
	store := newTestStore(t, "")
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("key"), []byte("value")))
	require.NoError(t, txn.Commit())

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	val, err := store.Get(txn, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	_, err = store.Get(txn, []byte("missing"))
	assert.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := newTestStore(t, "")
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("key"), []byte("value")))
	require.NoError(t, txn.Rollback())

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	_, err := store.Get(txn, []byte("key"))
	assert.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestReadOnlyTxnRejectsWrites(t *testing.T) {
	store := newTestStore(t, "")
	txn := store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	assert.ErrorIs(t, store.Set(txn, []byte("k"), []byte("v")), types.ErrReadOnlyTxn)
	assert.ErrorIs(t, store.Delete(txn, []byte("k")), types.ErrReadOnlyTxn)
}

func TestFinishedTxn(t *testing.T) {
	store := newTestStore(t, "")
	txn := store.NewTransaction(true)
	require.NoError(t, txn.Commit())
	assert.ErrorIs(t, store.Set(txn, []byte("k"), []byte("v")), types.ErrTxnFinished)
	_, err := store.Get(nil, []byte("k"))
	assert.ErrorIs(t, err, types.ErrNilTxn)
}

func TestIteratorPrefixOrder(t *testing.T) {
	store := newTestStore(t, "")
	txn := store.NewTransaction(true)
	for _, k := range []string{"b3", "a1", "b1", "c1", "b2"} {
		require.NoError(t, store.Set(txn, []byte(k), []byte(k)))
	}
	require.NoError(t, txn.Commit())

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	it := store.NewIterator(txn, types.BlobIteratorOptions{Prefix: []byte("b")})
	var keys []string
	for it.Rewind(); it.ValidForPrefix([]byte("b")); it.Next() {
		keys = append(keys, string(it.Item().Key()))
	}
	it.Close()
	assert.Equal(t, []string{"b1", "b2", "b3"}, keys)
}

func TestDeleteAndPersist(t *testing.T) {
	dataDir := t.TempDir()
	store, err := badger.New(badger.WithDataDir(dataDir), badger.WithGc(false))
	require.NoError(t, err)
	txn := store.NewTransaction(true)
	require.NoError(t, store.Set(txn, []byte("keep"), []byte("1")))
	require.NoError(t, store.Set(txn, []byte("drop"), []byte("2")))
	require.NoError(t, txn.Commit())
	txn = store.NewTransaction(true)
	require.NoError(t, store.Delete(txn, []byte("drop")))
	require.NoError(t, txn.Commit())
	require.NoError(t, store.Close())

	store = newTestStore(t, dataDir)
	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	val, err := store.Get(txn, []byte("keep"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	_, err = store.Get(txn, []byte("drop"))
	assert.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}
