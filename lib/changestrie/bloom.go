// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

import (
	"encoding/binary"
	"errors"

	"github.com/ChainSafe/gossamer-primitives/lib/common"
	bloomfilter "github.com/holiman/bloomfilter/v2"
)

// ErrKeySize is returned when a key added to the keep filter is not a hash.
var ErrKeySize = errors.New("key size is not 32 bytes")

type bloomNodeHasher []byte

func (f bloomNodeHasher) Write(p []byte) (n int, err error) { panic("not implemented") }
func (f bloomNodeHasher) Sum(b []byte) []byte               { panic("not implemented") }
func (f bloomNodeHasher) Reset()                            { panic("not implemented") }
func (f bloomNodeHasher) BlockSize() int                    { panic("not implemented") }
func (f bloomNodeHasher) Size() int                         { return 8 }
func (f bloomNodeHasher) Sum64() uint64                     { return binary.BigEndian.Uint64(f) }

// keepFilter records the node hashes of the retained changes tries,
// so that nodes shared with a pruned trie are not deleted.
// It may report a node it never saw, never the other way around.
type keepFilter struct {
	bloom *bloomfilter.Filter
}

func newKeepFilter(sizeMB uint64) (*keepFilter, error) {
	bloom, err := bloomfilter.New(sizeMB*1024*1024*8, 4)
	if err != nil {
		return nil, err
	}
	return &keepFilter{bloom: bloom}, nil
}

func (kf *keepFilter) put(key []byte) error {
	if len(key) != common.HashLength {
		return ErrKeySize
	}

	kf.bloom.Add(bloomNodeHasher(key))
	return nil
}

func (kf *keepFilter) contains(key []byte) bool {
	if len(key) != common.HashLength {
		return false
	}
	return kf.bloom.Contains(bloomNodeHasher(key))
}
