// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/dchest/siphash"
	"github.com/decred/dcrd/crypto/blake256"
	"lukechampine.com/blake3"
)

// KeySize is the size of the byte array required for key material for the
// SipHash keyed hash function.
const KeySize = 16

// Hasher is the hashing capability used to map items into a set.  It produces
// a fixed-width unsigned digest for an arbitrary byte sequence.
//
// Implementations must be deterministic and should be uniformly distributed
// over [0, 2^Bits()).  No cryptographic properties are required.
//
// The digest width must exceed ceil(log2(N * 2^P)) for the parameters of any
// set the hasher is used with.  Narrower digests are not detected and degrade
// the false positive rate below the advertised 1/2^P.
type Hasher interface {
	// Sum64 returns the digest of the data in the low Bits() bits of the
	// result.
	Sum64(data []byte) uint64

	// Bits returns the digest width in bits.  It must be in the range
	// [1, 64].
	Bits() uint
}

// SipHasher is a keyed SipHash-2-4 hasher.  The key prevents attackers from
// choosing items that intentionally cause false positives.
type SipHasher struct {
	k0, k1 uint64
}

// NewSipHasher returns a SipHash-2-4 hasher using the given key.
func NewSipHasher(key [KeySize]byte) *SipHasher {
	return &SipHasher{
		k0: binary.LittleEndian.Uint64(key[0:8]),
		k1: binary.LittleEndian.Uint64(key[8:16]),
	}
}

// Sum64 returns the SipHash-2-4 digest of the data.
func (h *SipHasher) Sum64(data []byte) uint64 {
	return siphash.Hash(h.k0, h.k1, data)
}

// Bits returns 64.
func (h *SipHasher) Bits() uint {
	return 64
}

// Blake256Hasher hashes items with BLAKE-256 and uses the first 8 bytes of the
// result interpreted as a big-endian integer as the digest.
type Blake256Hasher struct{}

// Sum64 returns the truncated BLAKE-256 digest of the data.
func (Blake256Hasher) Sum64(data []byte) uint64 {
	digest := blake256.Sum256(data)
	return binary.BigEndian.Uint64(digest[:8])
}

// Bits returns 64.
func (Blake256Hasher) Bits() uint {
	return 64
}

// Blake3Hasher hashes items with BLAKE3 and uses the first 8 bytes of the
// 256-bit result interpreted as a big-endian integer as the digest.
type Blake3Hasher struct{}

// Sum64 returns the truncated BLAKE3 digest of the data.
func (Blake3Hasher) Sum64(data []byte) uint64 {
	digest := blake3.Sum256(data)
	return binary.BigEndian.Uint64(digest[:8])
}

// Bits returns 64.
func (Blake3Hasher) Bits() uint {
	return 64
}

// FNV64aHasher hashes items with the 64-bit FNV-1a function.
type FNV64aHasher struct{}

// Sum64 returns the FNV-1a digest of the data.
func (FNV64aHasher) Sum64(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

// Bits returns 64.
func (FNV64aHasher) Bits() uint {
	return 64
}

// FNV32aHasher hashes items with the 32-bit FNV-1a function.  It is only
// suitable for sets with a universe well below 2^32.
type FNV32aHasher struct{}

// Sum64 returns the FNV-1a digest of the data in the low 32 bits.
func (FNV32aHasher) Sum64(data []byte) uint64 {
	h := fnv.New32a()
	h.Write(data)
	return uint64(h.Sum32())
}

// Bits returns 32.
func (FNV32aHasher) Bits() uint {
	return 32
}

// funcHasher adapts a plain function to the Hasher interface.
type funcHasher struct {
	width uint
	fn    func([]byte) uint64
}

func (h funcHasher) Sum64(data []byte) uint64 { return h.fn(data) }
func (h funcHasher) Bits() uint               { return h.width }

// HasherFunc returns a Hasher that calls fn to produce digests of the given
// width in bits.
func HasherFunc(width uint, fn func([]byte) uint64) Hasher {
	return funcHasher{width: width, fn: fn}
}
