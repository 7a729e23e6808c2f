// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package database

import (
	"bytes"
)

type table struct {
	db     Database
	prefix []byte
}

var _ Table = (*table)(nil)

// NewTable returns a view of the database where every key
// is prefixed with the given prefix.
func NewTable(db Database, prefix string) Table {
	return &table{
		db:     db,
		prefix: []byte(prefix),
	}
}

func (t *table) Path() string {
	return string(t.prefix)
}

func (t *table) Get(key []byte) ([]byte, error) {
	return t.db.Get(prefixKey(t.prefix, key))
}

func (t *table) Has(key []byte) (bool, error) {
	return t.db.Has(prefixKey(t.prefix, key))
}

func (t *table) Put(key, value []byte) error {
	return t.db.Put(prefixKey(t.prefix, key), value)
}

func (t *table) Del(key []byte) error {
	return t.db.Del(prefixKey(t.prefix, key))
}

func (t *table) Flush() error {
	return t.db.Flush()
}

func (t *table) NewBatch() Batch {
	return NewTableBatch(t.db.NewBatch(), string(t.prefix))
}

// NewIterator iterates over the table entries.
// Keys returned by the iterator include the table prefix.
func (t *table) NewIterator() Iterator {
	return t.db.NewPrefixIterator(t.prefix)
}

type tableBatch struct {
	batch  Batch
	prefix []byte
}

var _ Batch = (*tableBatch)(nil)

// NewTableBatch wraps a batch so every key written is prefixed
// with the given table prefix. It allows writes to several tables
// to be committed atomically with a single underlying batch.
func NewTableBatch(batch Batch, prefix string) Batch {
	return &tableBatch{
		batch:  batch,
		prefix: []byte(prefix),
	}
}

func (tb *tableBatch) Put(key, value []byte) error {
	return tb.batch.Put(prefixKey(tb.prefix, key), value)
}

func (tb *tableBatch) Del(key []byte) error {
	return tb.batch.Del(prefixKey(tb.prefix, key))
}

func (tb *tableBatch) Flush() error {
	return tb.batch.Flush()
}

func (tb *tableBatch) ValueSize() int {
	return tb.batch.ValueSize()
}

func (tb *tableBatch) Reset() {
	tb.batch.Reset()
}

func (tb *tableBatch) Close() error {
	return tb.batch.Close()
}

func prefixKey(prefix, key []byte) []byte {
	return bytes.Join([][]byte{prefix, key}, nil)
}
