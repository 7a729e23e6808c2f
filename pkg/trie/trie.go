// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"fmt"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
)

// EmptyHash is the root hash of the empty trie,
// which is the Blake2b-256 hash of the encoding 0x00.
var EmptyHash = common.MustHexToHash("0x03170a2e7597b7b7e3d84c05391d139a62b157e78786d8c082f29dcf4c111314")

// Trie is an in-memory Merkle radix-16 trie using the
// Polkadot node encoding. It is built once and committed
// to a node database.
type Trie struct {
	root *node
}

// NewEmptyTrie returns an empty trie.
func NewEmptyTrie() *Trie {
	return &Trie{}
}

// IsEmpty returns true if the trie has no value.
func (t *Trie) IsEmpty() bool {
	return t.root == nil
}

// Put inserts the value at the key. A nil value is stored as an empty value.
func (t *Trie) Put(key, value []byte) {
	if value == nil {
		value = []byte{}
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	t.root = insert(t.root, keyToNibbles(key), valueCopy)
}

// Get returns the value at the key, or nil if there is no value.
func (t *Trie) Get(key []byte) (value []byte) {
	value, _ = get(t.root, keyToNibbles(key))
	return value
}

// Entries returns all the key values of the trie.
func (t *Trie) Entries() (entries map[string][]byte) {
	entries = make(map[string][]byte)
	walk(t.root, nil, func(nibblesKey, value []byte) {
		entries[string(nibblesToKey(nibblesKey))] = value
	})
	return entries
}

// Hash returns the root hash of the trie.
func (t *Trie) Hash() (root common.Hash, err error) {
	return t.commit(nil)
}

// MustHash returns the root hash of the trie and panics on error.
func (t *Trie) MustHash() common.Hash {
	root, err := t.Hash()
	if err != nil {
		panic(err)
	}
	return root
}

// Commit writes every node referenced by hash, including the root node,
// to the database and returns the root hash. Nothing is written for an
// empty trie.
func (t *Trie) Commit(db NodePutter) (root common.Hash, err error) {
	return t.commit(db.Put)
}

func (t *Trie) commit(onHashed func(hash common.Hash, encoding []byte) error) (
	root common.Hash, err error) {
	if t.root == nil {
		return EmptyHash, nil
	}

	encoded, err := encodeNode(t.root, true, onHashed)
	if err != nil {
		return root, fmt.Errorf("encoding root node: %w", err)
	}
	return common.NewHash(encoded.merkleValue), nil
}
