// Copyright (c) 2018-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"fmt"
	"io"
	"math/bits"
)

// bitWriter is a cursor that appends bits to a byte slice, most significant bit
// first.  The final byte is zero padded until it is filled.
type bitWriter struct {
	bytes []byte
	nBits uint64 // total number of bits written
}

// free returns the number of unused bits in the final byte of the stream,
// appending a new zero byte first when the stream is byte aligned.
func (w *bitWriter) free() uint {
	offset := uint(w.nBits & 7)
	if offset == 0 {
		w.bytes = append(w.bytes, 0)
	}
	return 8 - offset
}

// writeOne appends a one bit to the bitstream.
func (w *bitWriter) writeOne() {
	free := w.free()
	w.bytes[len(w.bytes)-1] |= 1 << (free - 1)
	w.nBits++
}

// writeZero appends a zero bit to the bitstream.
func (w *bitWriter) writeZero() {
	w.free()
	w.nBits++
}

// writeUnary appends n one bits followed by a terminating zero bit.
func (w *bitWriter) writeUnary(n uint64) {
	for n > 0 {
		free := w.free()
		if uint64(free) > n {
			// The run ends inside the current byte.
			last := &w.bytes[len(w.bytes)-1]
			*last |= byte(((1 << n) - 1) << (uint64(free) - n))
			w.nBits += n
			break
		}

		// Fill the remainder of the current byte with ones.
		w.bytes[len(w.bytes)-1] |= byte(1<<free - 1)
		w.nBits += uint64(free)
		n -= uint64(free)
	}
	w.writeZero()
}

// writeNBits appends the nBits least significant bits of data to the bitstream
// starting with the most significant of them.
//
// NOTE: This will panic if called with more than 64 bits since that is an
// internal invariant violation.
func (w *bitWriter) writeNBits(data uint64, nBits uint) {
	if nBits > 64 {
		panic(fmt.Sprintf("unable to write %d bits from a uint64", nBits))
	}

	for nBits > 0 {
		free := w.free()
		take := free
		if nBits < take {
			take = nBits
		}
		chunk := byte(data>>(nBits-take)) & byte(1<<take-1)
		w.bytes[len(w.bytes)-1] |= chunk << (free - take)
		w.nBits += uint64(take)
		nBits -= take
	}
}

// bitReader is a cursor that reads bits from a byte slice, most significant bit
// first.
type bitReader struct {
	bytes []byte
	pos   uint64 // index of the next bit to read
	nBits uint64 // total number of bits available
}

// newBitReader returns a bitstream reader positioned at the first bit of the
// passed bytes.
func newBitReader(bitstream []byte) bitReader {
	return bitReader{bytes: bitstream, nBits: uint64(len(bitstream)) * 8}
}

// readUnary returns the number of consecutive one bits before the next zero bit
// and advances the reader past the zero bit.  It returns io.EOF when the end of
// the bitstream is reached before a zero bit.
func (r *bitReader) readUnary() (uint64, error) {
	var n uint64
	for {
		if r.pos >= r.nBits {
			return 0, io.EOF
		}

		// Shift the unread bits of the current byte into the most significant
		// positions.  The shift fills the low bits with zeros, so the number of
		// leading ones is bounded by the number of unread bits.
		offset := uint(r.pos & 7)
		unread := 8 - offset
		current := r.bytes[r.pos>>3] << offset
		ones := uint(bits.LeadingZeros8(^current))
		if ones < unread {
			n += uint64(ones)
			r.pos += uint64(ones) + 1
			return n, nil
		}

		n += uint64(unread)
		r.pos += uint64(unread)
	}
}

// readNBits reads the next nBits bits from the bitstream and returns them as
// the least significant bits of a uint64.  It returns io.EOF without advancing
// when fewer than nBits bits remain.
//
// NOTE: This will panic if called with more than 64 bits since that is an
// internal invariant violation.
func (r *bitReader) readNBits(nBits uint) (uint64, error) {
	if nBits > 64 {
		panic(fmt.Sprintf("unable to read %d bits into a uint64", nBits))
	}
	if nBits == 0 {
		return 0, nil
	}
	if r.nBits-r.pos < uint64(nBits) {
		return 0, io.EOF
	}

	var v uint64
	for nBits > 0 {
		offset := uint(r.pos & 7)
		unread := 8 - offset
		take := unread
		if nBits < take {
			take = nBits
		}
		chunk := (r.bytes[r.pos>>3] >> (unread - take)) & byte(1<<take-1)
		v = v<<take | uint64(chunk)
		r.pos += uint64(take)
		nBits -= take
	}
	return v, nil
}

// bitsRemaining returns the number of unread bits in the bitstream.
func (r *bitReader) bitsRemaining() uint64 {
	return r.nBits - r.pos
}
