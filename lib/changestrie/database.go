// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/internal/database"
	"github.com/ChainSafe/gossamer-primitives/lib/common"
	"github.com/ChainSafe/gossamer-primitives/pkg/trie/memorydb"
	"github.com/dgraph-io/ristretto/v2"
)

var _ Storage = (*DatabaseStorage)(nil)

// ErrRootLength is returned when a stored root is not 32 bytes long.
var ErrRootLength = errors.New("stored changes trie root has invalid length")

// BlockRoot is the changes trie root of a block.
type BlockRoot struct {
	Block uint64
	Root  common.Hash
}

// DatabaseStorage stores the changes tries in a database, with roots
// keyed by block number and nodes keyed by hash. Node reads are cached.
// Roots of blocks above the anchor block number are not visible.
type DatabaseStorage struct {
	db    database.Database
	roots database.Table
	nodes database.Table
	cache *ristretto.Cache[[]byte, []byte]
}

// NewDatabaseStorage returns a storage using the database given.
// cacheSize is the maximum size in bytes of the node cache, and
// the cache is disabled if it is zero.
func NewDatabaseStorage(db database.Database, cacheSize int64) (*DatabaseStorage, error) {
	storage := &DatabaseStorage{
		db:    db,
		roots: database.NewTable(db, string(common.ChangesTrieRootPrefix)),
		nodes: database.NewTable(db, string(common.ChangesTrieNodePrefix)),
	}

	if cacheSize > 0 {
		cache, err := ristretto.NewCache[[]byte, []byte](&ristretto.Config[[]byte, []byte]{
			// Use 10 counters per expected 100 bytes node.
			NumCounters: cacheSize / 10,
			MaxCost:     cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("creating node cache: %w", err)
		}
		storage.cache = cache
	}

	return storage, nil
}

func blockKey(block uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, block)
	return key
}

// Root returns the changes trie root of the block, or nil if the block
// has no changes trie or is above the anchor block.
func (s *DatabaseStorage) Root(anchor AnchorBlockID, block uint64) (root *common.Hash, err error) {
	if block > anchor.Number {
		return nil, nil
	}

	value, err := s.roots.Get(blockKey(block))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting root of block %d: %w", block, err)
	}

	if len(value) != common.HashLength {
		return nil, fmt.Errorf("%w: %d bytes for block %d", ErrRootLength, len(value), block)
	}

	hash := common.NewHash(value)
	return &hash, nil
}

// Get returns the node encoding with the given hash, or nil if there is none.
func (s *DatabaseStorage) Get(hash common.Hash) (encoding []byte, err error) {
	if s.cache != nil {
		cached, ok := s.cache.Get(hash.ToBytes())
		if ok {
			return cached, nil
		}
	}

	encoding, err = s.nodes.Get(hash.ToBytes())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting node %s: %w", hash, err)
	}

	if s.cache != nil {
		s.cache.Set(hash.ToBytes(), encoding, int64(len(encoding)))
	}
	return encoding, nil
}

// Insert writes the changes trie root of the block and the positively
// referenced nodes of the database given, atomically.
func (s *DatabaseStorage) Insert(block uint64, root common.Hash, nodes *memorydb.MemoryDB) (err error) {
	batch := s.db.NewBatch()
	defer batch.Close()

	nodesBatch := database.NewTableBatch(batch, string(common.ChangesTrieNodePrefix))
	for hash, value := range nodes.Drain() {
		if value.RC <= 0 {
			continue
		}

		err = nodesBatch.Put(hash.ToBytes(), value.Data)
		if err != nil {
			return fmt.Errorf("writing node %s: %w", hash, err)
		}
	}

	rootsBatch := database.NewTableBatch(batch, string(common.ChangesTrieRootPrefix))
	err = rootsBatch.Put(blockKey(block), root.ToBytes())
	if err != nil {
		return fmt.Errorf("writing root of block %d: %w", block, err)
	}

	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing batch: %w", err)
	}
	return nil
}

// Roots returns the stored changes trie roots of the blocks from
// first to last included, in ascending block order. Blocks whose
// stored root is not a hash are not returned in roots but in invalid.
func (s *DatabaseStorage) Roots(first, last uint64) (roots []BlockRoot, invalid []uint64) {
	iterator := s.roots.NewIterator()
	defer iterator.Release()

	prefixLength := len(common.ChangesTrieRootPrefix)
	for ok := iterator.SeekGE(append(common.ChangesTrieRootPrefix[:prefixLength:prefixLength],
		blockKey(first)...)); ok; ok = iterator.Next() {
		key := iterator.Key()
		if len(key) != prefixLength+8 {
			continue
		}

		block := binary.BigEndian.Uint64(key[prefixLength:])
		if block > last {
			break
		}

		value := iterator.Value()
		if len(value) != common.HashLength {
			invalid = append(invalid, block)
			continue
		}
		roots = append(roots, BlockRoot{Block: block, Root: common.NewHash(value)})
	}
	return roots, invalid
}

// LastPruned returns the last pruned block number, and false if
// nothing was pruned yet.
func (s *DatabaseStorage) LastPruned() (block uint64, ok bool, err error) {
	value, err := s.db.Get(common.ChangesTrieLastPrunedKey)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("getting last pruned block: %w", err)
	}

	if len(value) != 8 {
		return 0, false, fmt.Errorf("last pruned block has invalid length %d", len(value))
	}
	return binary.BigEndian.Uint64(value), true, nil
}

// NewPruneBatch returns a batch deleting changes trie nodes and roots.
func (s *DatabaseStorage) NewPruneBatch() *PruneBatch {
	batch := s.db.NewBatch()
	return &PruneBatch{
		batch: batch,
		roots: database.NewTableBatch(batch, string(common.ChangesTrieRootPrefix)),
		nodes: database.NewTableBatch(batch, string(common.ChangesTrieNodePrefix)),
		cache: s.cache,
	}
}

// Close releases the node cache. The database is not closed.
func (s *DatabaseStorage) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// PruneBatch deletes changes trie nodes and roots atomically.
// Nothing is deleted until Flush is called.
type PruneBatch struct {
	batch     database.Batch
	roots     database.Batch
	nodes     database.Batch
	cache     *ristretto.Cache[[]byte, []byte]
	nodeCount int
}

// DeleteNode deletes the node with the given hash.
func (pb *PruneBatch) DeleteNode(hash common.Hash) error {
	err := pb.nodes.Del(hash.ToBytes())
	if err != nil {
		return fmt.Errorf("deleting node %s: %w", hash, err)
	}
	pb.nodeCount++
	if pb.cache != nil {
		pb.cache.Del(hash.ToBytes())
	}
	return nil
}

// DeleteRoot deletes the changes trie root of the block.
func (pb *PruneBatch) DeleteRoot(block uint64) error {
	err := pb.roots.Del(blockKey(block))
	if err != nil {
		return fmt.Errorf("deleting root of block %d: %w", block, err)
	}
	return nil
}

// SetLastPruned sets the last pruned block number.
func (pb *PruneBatch) SetLastPruned(block uint64) error {
	err := pb.batch.Put(common.ChangesTrieLastPrunedKey, blockKey(block))
	if err != nil {
		return fmt.Errorf("writing last pruned block: %w", err)
	}
	return nil
}

// NodeCount returns the number of nodes deleted in the batch.
func (pb *PruneBatch) NodeCount() int {
	return pb.nodeCount
}

// Flush writes the batch to the database.
func (pb *PruneBatch) Flush() error {
	err := pb.batch.Flush()
	if err != nil {
		return err
	}

	if pb.cache != nil {
		pb.cache.Wait()
	}
	return nil
}

// Close releases the batch.
func (pb *PruneBatch) Close() error {
	return pb.batch.Close()
}
