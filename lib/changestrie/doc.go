// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package changestrie builds, stores and prunes the changes tries.
//
// A changes trie records which storage keys changed in a block, and which
// extrinsics changed them. One changes trie is built per block, with one
// child trie per changed child storage referenced by a ChildIndex entry of
// the top trie. Every key embeds its block number, so changes tries of
// distinct blocks do not share nodes and a block changes trie is pruned by
// removing every node reachable from its root. The Pruner still keeps any
// pruned node found in a retained changes trie.
package changestrie
