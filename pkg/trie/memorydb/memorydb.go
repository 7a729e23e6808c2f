// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memorydb

import (
	"bytes"
	"sync"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
)

var nullNodeData = []byte{0x0}

// Value is a node encoding with its reference count.
type Value struct {
	Data []byte
	RC   int
}

// MemoryDB is a reference counted in-memory node database keyed by the
// Blake2b-256 hash of the node encodings. An entry can have a negative
// reference count if it was removed more times than it was inserted, and
// is only visible while its reference count is positive.
// The null node (the empty trie encoding) is always present.
type MemoryDB struct {
	data           map[common.Hash]Value
	hashedNullNode common.Hash
	mutex          sync.RWMutex
}

// New creates a new empty MemoryDB.
func New() *MemoryDB {
	return &MemoryDB{
		data:           make(map[common.Hash]Value),
		hashedNullNode: common.MustBlake2bHash(nullNodeData),
	}
}

// Raw returns the raw value for the given key, whatever its
// reference count, or nil if there is no entry for the key.
func (db *MemoryDB) Raw(key common.Hash) *Value {
	if key == db.hashedNullNode {
		return &Value{Data: nullNodeData, RC: 1}
	}

	db.mutex.RLock()
	defer db.mutex.RUnlock()
	value, ok := db.data[key]
	if ok {
		return &value
	}
	return nil
}

// Get returns the data for the given key, or nil if the key has
// no positively referenced entry. It never returns an error.
func (db *MemoryDB) Get(key common.Hash) (data []byte, err error) {
	if key == db.hashedNullNode {
		return nullNodeData, nil
	}

	db.mutex.RLock()
	defer db.mutex.RUnlock()
	value, ok := db.data[key]
	if ok && value.RC > 0 {
		return value.Data, nil
	}
	return nil, nil
}

// Contains returns true if the key has a positively referenced entry.
func (db *MemoryDB) Contains(key common.Hash) bool {
	if key == db.hashedNullNode {
		return true
	}

	db.mutex.RLock()
	defer db.mutex.RUnlock()
	value, ok := db.data[key]
	return ok && value.RC > 0
}

// Insert inserts the data in the database and returns its key.
func (db *MemoryDB) Insert(data []byte) (key common.Hash) {
	if bytes.Equal(data, nullNodeData) {
		return db.hashedNullNode
	}

	key = common.MustBlake2bHash(data)
	db.Emplace(key, data)
	return key
}

// Put emplaces the data at the given key.
func (db *MemoryDB) Put(key common.Hash, data []byte) error {
	db.Emplace(key, data)
	return nil
}

// Emplace inserts the data at the given key and increments its reference count.
func (db *MemoryDB) Emplace(key common.Hash, data []byte) {
	if bytes.Equal(data, nullNodeData) {
		return
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	newEntry := Value{
		Data: data,
		RC:   1,
	}

	currentEntry, ok := db.data[key]
	if ok {
		if currentEntry.RC > 0 {
			newEntry.Data = currentEntry.Data
		}
		newEntry.RC = currentEntry.RC + 1
	}

	db.data[key] = newEntry
}

// Remove decrements the reference count of the key, setting it
// to -1 if the key has no entry.
func (db *MemoryDB) Remove(key common.Hash) {
	if key == db.hashedNullNode {
		return
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	entry, ok := db.data[key]
	if ok {
		entry.RC--
		db.data[key] = entry
		return
	}

	db.data[key] = Value{RC: -1}
}

// RemoveAndPurge decrements the reference count of the key and deletes
// its entry if it reaches zero, in which case the data is returned.
func (db *MemoryDB) RemoveAndPurge(key common.Hash) (data []byte) {
	if key == db.hashedNullNode {
		return nil
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	entry, ok := db.data[key]
	if ok {
		if entry.RC == 1 {
			delete(db.data, key)
			return entry.Data
		}
		entry.RC--
		db.data[key] = entry
		return nil
	}

	db.data[key] = Value{RC: -1}
	return nil
}

// Purge deletes all zero-referenced entries from the database.
func (db *MemoryDB) Purge() {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for key, value := range db.data {
		if value.RC == 0 {
			delete(db.data, key)
		}
	}
}

// Drain returns all the entries and clears the database.
func (db *MemoryDB) Drain() (data map[common.Hash]Value) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	data = db.data
	db.data = make(map[common.Hash]Value)
	return data
}

// Consolidate drains the other database into this database,
// adding up reference counts.
func (db *MemoryDB) Consolidate(other *MemoryDB) {
	otherData := other.Drain()

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for key, otherValue := range otherData {
		entry, ok := db.data[key]
		if !ok {
			db.data[key] = otherValue
			continue
		}

		if entry.RC < 0 {
			entry.Data = otherValue.Data
		}
		entry.RC += otherValue.RC
		db.data[key] = entry
	}
}

// Keys returns the reference count of every entry with a non zero
// reference count.
func (db *MemoryDB) Keys() (keys map[common.Hash]int) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	keys = make(map[common.Hash]int, len(db.data))
	for key, value := range db.data {
		if value.RC != 0 {
			keys[key] = value.RC
		}
	}
	return keys
}

// Len returns the number of positively referenced entries.
func (db *MemoryDB) Len() (length int) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	for _, value := range db.data {
		if value.RC > 0 {
			length++
		}
	}
	return length
}
