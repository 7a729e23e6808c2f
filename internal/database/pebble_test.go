// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package database

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAssertion struct {
	input    string
	expected string
}

func testSetup() []testAssertion {
	return []testAssertion{
		{"camel", "camel"},
		{"walrus", "walrus"},
		{"296204", "296204"},
		{"\x00123\x00", "\x00123\x00"},
	}
}

func testNewPebble(t *testing.T) Database {
	t.Helper()

	db, err := NewPebble(t.TempDir(), false)
	require.NoError(t, err)

	t.Cleanup(func() {
		err := db.Close()
		require.NoError(t, err)
	})

	return db
}

func TestPebbleDatabaseImplementations(t *testing.T) {
	t.Parallel()

	db := testNewPebble(t)

	testPutGetter(t, db)
	testHasGetter(t, db)
	testUpdateGetter(t, db)
	testDelGetter(t, db)
	testGetPath(t, db)
}

func TestPebbleDBBatch(t *testing.T) {
	t.Parallel()

	db := testNewPebble(t)
	testBatchPutAndDelete(t, db)
}

func TestPebbleDBIterator(t *testing.T) {
	t.Parallel()

	db := testNewPebble(t)
	testNextKeyIterator(t, db)
	testSeekKeyValueIterator(t, db)
}

func TestPebbleInMemory(t *testing.T) {
	t.Parallel()

	db, err := NewPebble("in-memory", true)
	require.NoError(t, err)
	defer db.Close()

	err = db.Put([]byte("key"), []byte("value"))
	require.NoError(t, err)

	value, err := db.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func testPutGetter(t *testing.T, db Database) {
	t.Helper()

	for _, v := range testSetup() {
		err := db.Put([]byte(v.input), []byte(v.input))
		require.NoError(t, err)

		data, err := db.Get([]byte(v.input))
		require.NoError(t, err)

		require.Equal(t, []byte(v.expected), data)
	}
}

func testHasGetter(t *testing.T, db Database) {
	t.Helper()

	for _, v := range testSetup() {
		exists, err := db.Has([]byte(v.input))
		require.NoError(t, err)
		require.True(t, exists)
	}

	exists, err := db.Has([]byte("not there"))
	require.NoError(t, err)
	require.False(t, exists)
}

func testUpdateGetter(t *testing.T, db Database) {
	t.Helper()

	for _, v := range testSetup() {
		err := db.Put([]byte(v.input), []byte("?"))
		require.NoError(t, err)

		data, err := db.Get([]byte(v.input))
		require.NoError(t, err)

		require.Equal(t, []byte("?"), data)
	}
}

func testDelGetter(t *testing.T, db Database) {
	t.Helper()

	for _, v := range testSetup() {
		err := db.Del([]byte(v.input))
		require.NoError(t, err)

		_, err = db.Get([]byte(v.input))
		require.ErrorIs(t, err, ErrNotFound)
	}
}

func testGetPath(t *testing.T, db Database) {
	t.Helper()

	fi, err := os.Stat(db.Path())
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func testBatchPutAndDelete(t *testing.T, db Database) {
	t.Helper()

	key := []byte("camel")
	value := []byte("camel-value")

	batch := db.NewBatch()
	err := batch.Put(key, value)
	require.NoError(t, err)
	require.Equal(t, 1, batch.ValueSize())

	_, err = db.Get(key)
	require.ErrorIs(t, err, ErrNotFound)

	err = batch.Flush()
	require.NoError(t, err)
	require.NoError(t, batch.Close())

	deleteBatch := db.NewBatch()
	err = deleteBatch.Del(key)
	require.NoError(t, err)

	retrievedValue, err := db.Get(key)
	require.NoError(t, err)
	require.Equal(t, value, retrievedValue)

	err = deleteBatch.Flush()
	require.NoError(t, err)
	require.NoError(t, deleteBatch.Close())

	_, err = db.Get(key)
	require.ErrorIs(t, err, ErrNotFound)
}

func testIteratorSetup(t *testing.T, db Database) {
	t.Helper()

	batch := db.NewBatch()

	for i := 0; i < 5; i++ {
		key := []byte(fmt.Sprintf("camel-%d", i))
		value := []byte(fmt.Sprintf("camel-value-%d", i))
		err := batch.Put(key, value)
		require.NoError(t, err)
	}

	err := batch.Put([]byte("llama"), []byte("llama-value"))
	require.NoError(t, err)

	err = batch.Flush()
	require.NoError(t, err)
}

func testNextKeyIterator(t *testing.T, db Database) {
	t.Helper()

	testIteratorSetup(t, db)

	it := db.NewIterator()
	defer it.Release()

	counter := 0
	for succ := it.First(); succ; succ = it.Next() {
		require.NotNil(t, it.Key())
		require.NotNil(t, it.Value())
		counter++
	}

	const expected = 6
	require.Equal(t, expected, counter)

	prefixIt := db.NewPrefixIterator([]byte("camel-"))
	defer prefixIt.Release()

	counter = 0
	for succ := prefixIt.First(); succ; succ = prefixIt.Next() {
		counter++
	}
	require.Equal(t, 5, counter)
}

func testSeekKeyValueIterator(t *testing.T, db Database) {
	t.Helper()

	testIteratorSetup(t, db)
	kv := map[string]string{
		"camel-0": "camel-value-0",
		"camel-1": "camel-value-1",
		"camel-2": "camel-value-2",
		"camel-3": "camel-value-3",
		"camel-4": "camel-value-4",
		"llama":   "llama-value",
	}

	it := db.NewIterator()
	defer it.Release()

	for succ := it.SeekGE([]byte("camel-")); succ; succ = it.Next() {
		expectedValue, ok := kv[string(it.Key())]
		require.True(t, ok)

		require.True(t, it.Valid())
		require.Equal(t, []byte(expectedValue), it.Value())
	}
}

func Test_keyUpperBound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{1, 3}, keyUpperBound([]byte{1, 2}))
	assert.Equal(t, []byte{2}, keyUpperBound([]byte{1, 0xff}))
	assert.Nil(t, keyUpperBound([]byte{0xff, 0xff}))
}
