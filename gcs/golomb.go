// Copyright (c) 2018-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"fmt"
	"io"
	"math"
)

// writeGolombRice writes delta into the bitstream as a Golomb-Rice codeword
// with a bin size of 2^p.
//
// The quotient floor(delta / 2^p) is written in unary as that many one bits
// followed by a zero bit and the remainder delta mod 2^p is written as a
// big-endian integer with exactly p bits.  Note that Golomb coding typically
// uses truncated binary encoding in order to support arbitrary bin sizes,
// however, since the bin size is necessarily a power of 2, it is equivalent to
// a regular binary code.  A p of zero degenerates to pure unary coding.
func writeGolombRice(w *bitWriter, delta uint64, p uint8) {
	w.writeUnary(delta >> p)
	w.writeNBits(delta&(1<<p-1), uint(p))
}

// readGolombRice reads a Golomb-Rice codeword with a bin size of 2^p from the
// bitstream and returns the decoded value.
//
// The returned error is io.EOF when the bitstream ends before a codeword is
// started, io.ErrUnexpectedEOF when it ends in the middle of a codeword, and
// ErrCorruptStream when the quotient is too large to represent.
func readGolombRice(r *bitReader, p uint8) (uint64, error) {
	if r.bitsRemaining() == 0 {
		return 0, io.EOF
	}

	quotient, err := r.readUnary()
	if err != nil {
		return 0, io.ErrUnexpectedEOF
	}
	if quotient > math.MaxUint64>>p {
		str := fmt.Sprintf("golomb-rice quotient %d overflows with %d "+
			"remainder bits", quotient, p)
		return 0, makeError(ErrCorruptStream, str)
	}

	remainder, err := r.readNBits(uint(p))
	if err != nil {
		return 0, io.ErrUnexpectedEOF
	}

	return quotient<<p | remainder, nil
}

// riceSizeHint returns a reasonable expected size in bytes of a bitstream that
// encodes n sorted values spread uniformly over a universe of n * 2^p.
//
// Every entry will have p bits for the remainder portion and a quotient that
// is expected to be 1 on average with an exponentially decreasing probability
// for each subsequent value.  A quotient of 1 takes 2 bits in unary to encode
// and a quotient of 2 takes 3 bits.  Since the first two terms dominate, a
// reasonable expected size in bytes is:
//
//	(NP + 2N/2 + 3N/2) / 8
func riceSizeHint(n uint64, p uint8) uint64 {
	return (n*uint64(p) + n + 3*n>>1) >> 3
}
