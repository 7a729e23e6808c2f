// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

// ChildrenCapacity is the maximum number of children of a branch.
const ChildrenCapacity = 16

// node is an in-memory trie node. It is a leaf if it has no child,
// and a branch otherwise. A nil value means the branch has no value.
type node struct {
	partialKey []byte
	value      []byte
	children   [ChildrenCapacity]*node
}

func (n *node) isBranch() bool {
	for _, child := range n.children {
		if child != nil {
			return true
		}
	}
	return false
}

func (n *node) childrenBitmap() (bitmap uint16) {
	for i, child := range n.children {
		if child != nil {
			bitmap |= 1 << uint(i)
		}
	}
	return bitmap
}

// insert inserts the value at the nibbles key under the parent node,
// and returns the new parent node.
func insert(parent *node, key, value []byte) *node {
	if parent == nil {
		return &node{
			partialKey: concatNibbles(key),
			value:      value,
		}
	}

	commonLength := lenCommonPrefix(parent.partialKey, key)

	if commonLength == len(parent.partialKey) && commonLength == len(key) {
		parent.value = value
		return parent
	}

	if commonLength == len(parent.partialKey) {
		childIndex := key[commonLength]
		parent.children[childIndex] = insert(parent.children[childIndex], key[commonLength+1:], value)
		return parent
	}

	branch := &node{
		partialKey: concatNibbles(key[:commonLength]),
	}
	parentIndex := parent.partialKey[commonLength]
	parent.partialKey = concatNibbles(parent.partialKey[commonLength+1:])
	branch.children[parentIndex] = parent

	if commonLength == len(key) {
		branch.value = value
	} else {
		branch.children[key[commonLength]] = &node{
			partialKey: concatNibbles(key[commonLength+1:]),
			value:      value,
		}
	}
	return branch
}

// get returns the value at the nibbles key under the parent node,
// and false if there is no such value.
func get(parent *node, key []byte) (value []byte, found bool) {
	for parent != nil {
		commonLength := lenCommonPrefix(parent.partialKey, key)
		if commonLength != len(parent.partialKey) {
			return nil, false
		}

		if commonLength == len(key) {
			return parent.value, parent.value != nil
		}

		parent, key = parent.children[key[commonLength]], key[commonLength+1:]
	}
	return nil, false
}

// walk calls fn for every value under the parent node, in key order.
// fullKey is the nibbles key of the parent node, excluding its partial key.
func walk(parent *node, fullKey []byte, fn func(nibblesKey, value []byte)) {
	if parent == nil {
		return
	}

	nodeKey := concatNibbles(fullKey, parent.partialKey)
	if parent.value != nil {
		fn(nodeKey, parent.value)
	}

	for i, child := range parent.children {
		walk(child, concatNibbles(nodeKey, []byte{byte(i)}), fn)
	}
}
