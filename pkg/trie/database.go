// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import "github.com/ChainSafe/gossamer-primitives/lib/common"

// NodeGetter gets the encoding of a trie node from its hash.
type NodeGetter interface {
	Get(hash common.Hash) (encoding []byte, err error)
}

// NodePutter stores the encoding of a trie node by its hash.
type NodePutter interface {
	Put(hash common.Hash, encoding []byte) error
}
