// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"sync"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/memorydb"
)

var _ Storage = (*InMemoryStorage)(nil)

// InMemoryStorage stores the changes tries in memory.
// Roots are resolved regardless of the anchor block.
type InMemoryStorage struct {
	mdb   *memorydb.MemoryDB
	roots map[uint64]common.Hash
	mutex sync.RWMutex
}

// NewInMemoryStorage returns an empty InMemoryStorage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		mdb:   memorydb.New(),
		roots: make(map[uint64]common.Hash),
	}
}

// Insert inserts the changes trie of the block, consolidating its nodes.
func (s *InMemoryStorage) Insert(block uint64, root common.Hash, nodes *memorydb.MemoryDB) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.roots[block] = root
	s.mdb.Consolidate(nodes)
}

// Root returns the changes trie root of the block, or nil if there is none.
func (s *InMemoryStorage) Root(_ AnchorBlockID, block uint64) (root *common.Hash, err error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	hash, ok := s.roots[block]
	if !ok {
		return nil, nil
	}
	return &hash, nil
}

// Get returns the node encoding with the given hash, or nil if there is none.
func (s *InMemoryStorage) Get(hash common.Hash) (encoding []byte, err error) {
	return s.mdb.Get(hash)
}

// Remove removes each of the given nodes once. Block roots referencing
// a removed node are removed as well.
func (s *InMemoryStorage) Remove(hashes []common.Hash) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := make(map[common.Hash]struct{}, len(hashes))
	for _, hash := range hashes {
		s.mdb.RemoveAndPurge(hash)
		removed[hash] = struct{}{}
	}

	for block, root := range s.roots {
		if _, ok := removed[root]; ok {
			delete(s.roots, block)
		}
	}
}

// NodeCount returns the number of nodes stored.
func (s *InMemoryStorage) NodeCount() int {
	return s.mdb.Len()
}

// Blocks returns the number of blocks with a changes trie.
func (s *InMemoryStorage) Blocks() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.roots)
}
