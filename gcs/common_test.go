// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"math/bits"
	"math/rand"
)

// digestFor returns the smallest 64-bit digest that reduces to the given value
// in a universe of size m.  The value must be less than m.
func digestFor(v, m uint64) uint64 {
	// ceil(v * 2^64 / m)
	q, r := bits.Div64(v, 0, m)
	if r != 0 {
		q++
	}
	return q
}

// valueHasher is a hasher for tests that maps known items to chosen reduced
// values in a universe of size m.  Unknown items reduce to m - 1.
type valueHasher struct {
	m      uint64
	values map[string]uint64
}

func (h *valueHasher) Sum64(data []byte) uint64 {
	v, ok := h.values[string(data)]
	if !ok {
		return math.MaxUint64
	}
	return digestFor(v, h.m)
}

func (h *valueHasher) Bits() uint {
	return 64
}

// genFilterElements generates the given number of elements using the provided
// prng.  This allows a prng with a fixed seed to be provided so the same values
// are produced for each run.
func genFilterElements(numElements uint, prng *rand.Rand) ([][]byte, error) {
	result := make([][]byte, numElements)
	for i := uint(0); i < numElements; i++ {
		randElem := make([]byte, 32)
		if _, err := prng.Read(randElem); err != nil {
			return nil, err
		}
		result[i] = randElem
	}

	return result, nil
}

// makeSerialized returns a serialized filter with the given header fields and
// hex-encoded bitstream.  It panics on invalid hex since it is only used with
// hard-coded test data.
func makeSerialized(n, count uint64, p uint8, stream string) []byte {
	streamBytes, err := hex.DecodeString(stream)
	if err != nil {
		panic(err)
	}
	data := make([]byte, headerSize+len(streamBytes))
	binary.BigEndian.PutUint64(data[0:8], n)
	binary.BigEndian.PutUint64(data[8:16], count)
	data[16] = p
	copy(data[headerSize:], streamBytes)
	return data
}
