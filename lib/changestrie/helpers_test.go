// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"testing"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/memorydb"
	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/stretchr/testify/require"
)

var testAnchor = AnchorBlockID{
	Hash:   common.Hash{0x90},
	Number: 90,
}

func commitTrie(t *testing.T, nodes *memorydb.MemoryDB, entries map[string][]byte) common.Hash {
	t.Helper()

	tr := trie.NewEmptyTrie()
	for key, value := range entries {
		tr.Put([]byte(key), value)
	}

	root, err := tr.Commit(nodes)
	require.NoError(t, err)
	return root
}

type fixtureRoots struct {
	block65, block66, block67, block68 common.Hash
	child67                            common.Hash
}

// newFixture returns the changes tries of blocks 65 to 68,
// where block 67 has a child trie.
func newFixture(t *testing.T) (roots fixtureRoots, tries map[uint64]*memorydb.MemoryDB) {
	t.Helper()

	tries = make(map[uint64]*memorydb.MemoryDB, 4)

	tries[65] = memorydb.New()
	roots.block65 = commitTrie(t, tries[65], map[string][]byte{
		"\x0a": {20},
	})

	tries[66] = memorydb.New()
	roots.block66 = commitTrie(t, tries[66], map[string][]byte{
		"\x0b": {21},
		"\x0c": {22},
	})

	tries[67] = memorydb.New()
	roots.child67 = commitTrie(t, tries[67], map[string][]byte{
		"\x6e": {120},
	})
	childIndexKey, err := ChildIndex{Block: 67, StorageKey: []byte("1")}.Encode()
	require.NoError(t, err)
	childRoot, err := scale.Marshal(roots.child67.ToBytes())
	require.NoError(t, err)
	roots.block67 = commitTrie(t, tries[67], map[string][]byte{
		"\x0d":                {23},
		"\x0e":                {24},
		string(childIndexKey): childRoot,
	})

	tries[68] = memorydb.New()
	roots.block68 = commitTrie(t, tries[68], map[string][]byte{
		"\x0f": {25},
	})

	return roots, tries
}

func newInMemoryFixture(t *testing.T) (*InMemoryStorage, fixtureRoots) {
	t.Helper()

	roots, tries := newFixture(t)
	storage := NewInMemoryStorage()
	storage.Insert(65, roots.block65, tries[65])
	storage.Insert(66, roots.block66, tries[66])
	storage.Insert(67, roots.block67, tries[67])
	storage.Insert(68, roots.block68, tries[68])
	return storage, roots
}

// collectPruned returns the distinct nodes emitted by Prune,
// in their first emission order.
func collectPruned(storage Storage, first, last uint64, logger Logger) (hashes []common.Hash) {
	seen := make(map[common.Hash]struct{})
	Prune(storage, first, last, testAnchor, func(hash common.Hash) {
		if _, ok := seen[hash]; ok {
			return
		}
		seen[hash] = struct{}{}
		hashes = append(hashes, hash)
	}, logger)
	return hashes
}
