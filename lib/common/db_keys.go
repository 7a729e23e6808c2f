// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

var (
	// ChangesTrieRootPrefix is the db table prefix of the changes trie roots, keyed by block number.
	ChangesTrieRootPrefix = []byte("ctrie_root")
	// ChangesTrieNodePrefix is the db table prefix of the changes trie nodes, keyed by node hash.
	ChangesTrieNodePrefix = []byte("ctrie_node")
	// ChangesTrieLastPrunedKey is the db location of the number of the last pruned changes trie block.
	ChangesTrieLastPrunedKey = []byte("ctrie_last_pruned")
)
