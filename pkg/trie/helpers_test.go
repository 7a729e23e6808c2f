// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

import (
	"github.com/ChainSafe/gossamer-primitives/lib/common"
)

type mapDB map[common.Hash][]byte

func (db mapDB) Get(hash common.Hash) ([]byte, error) {
	return db[hash], nil
}

func (db mapDB) Put(hash common.Hash, encoding []byte) error {
	db[hash] = encoding
	return nil
}
