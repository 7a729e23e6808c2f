// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package trie

// keyToNibbles converts a byte slice key to its nibbles,
// most significant nibble first.
func keyToNibbles(key []byte) (nibbles []byte) {
	nibbles = make([]byte, 2*len(key))
	for i, b := range key {
		nibbles[2*i] = b >> 4
		nibbles[2*i+1] = b & 0xf
	}
	return nibbles
}

// nibblesToKey converts an even number of nibbles back to a key.
func nibblesToKey(nibbles []byte) (key []byte) {
	key = make([]byte, len(nibbles)/2)
	for i := range key {
		key[i] = nibbles[2*i]<<4 | nibbles[2*i+1]&0xf
	}
	return key
}

// nibblesToKeyLE packs nibbles into bytes, padding the
// first byte with a zero nibble if the nibbles count is odd.
func nibblesToKeyLE(nibbles []byte) (keyLE []byte) {
	if len(nibbles)%2 == 0 {
		keyLE = make([]byte, len(nibbles)/2)
		for i := 0; i < len(nibbles); i += 2 {
			keyLE[i/2] = (nibbles[i] << 4 & 0xf0) | (nibbles[i+1] & 0xf)
		}
		return keyLE
	}

	keyLE = make([]byte, len(nibbles)/2+1)
	keyLE[0] = nibbles[0]
	for i := 2; i < len(nibbles); i += 2 {
		keyLE[i/2] = (nibbles[i-1] << 4 & 0xf0) | (nibbles[i] & 0xf)
	}
	return keyLE
}

func lenCommonPrefix(a, b []byte) (length int) {
	for length < len(a) && length < len(b) && a[length] == b[length] {
		length++
	}
	return length
}

func concatNibbles(parts ...[]byte) (nibbles []byte) {
	size := 0
	for _, part := range parts {
		size += len(part)
	}
	nibbles = make([]byte, 0, size)
	for _, part := range parts {
		nibbles = append(nibbles, part...)
	}
	return nibbles
}
