// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/decred/golombset/gcs"
)

// Names of the supported hash functions as accepted by --hash and recorded in
// the filter store.
const (
	hashSipHash  = "siphash"
	hashBlake256 = "blake256"
	hashBlake3   = "blake3"
	hashFNV64a   = "fnv64a"
	hashFNV32a   = "fnv32a"
)

// hasherNames lists the supported hash functions in display order.
var hasherNames = []string{hashSipHash, hashBlake256, hashBlake3, hashFNV64a,
	hashFNV32a}

// supportedHasher returns whether the named hash function is supported.
func supportedHasher(name string) bool {
	for _, n := range hasherNames {
		if n == name {
			return true
		}
	}
	return false
}

// keyedHasher returns whether the named hash function requires a key.
func keyedHasher(name string) bool {
	return name == hashSipHash
}

// newHasher returns the named hash function.  The key is only used by keyed
// hash functions and must be gcs.KeySize bytes for them.
func newHasher(name string, key []byte) (gcs.Hasher, error) {
	switch name {
	case hashSipHash:
		if len(key) != gcs.KeySize {
			return nil, fmt.Errorf("%s requires a %d byte key, got %d bytes",
				name, gcs.KeySize, len(key))
		}
		var k [gcs.KeySize]byte
		copy(k[:], key)
		return gcs.NewSipHasher(k), nil

	case hashBlake256:
		return gcs.Blake256Hasher{}, nil

	case hashBlake3:
		return gcs.Blake3Hasher{}, nil

	case hashFNV64a:
		return gcs.FNV64aHasher{}, nil

	case hashFNV32a:
		return gcs.FNV32aHasher{}, nil
	}

	return nil, fmt.Errorf("unsupported hash function %q (supported: %s)",
		name, strings.Join(hasherNames, ", "))
}
