// Copyright (c) 2019-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"math/bits"
)

// fastReduce maps a digest that is uniformly distributed over [0, 2^width) to
// the range [0, m).  However, instead of using a mod operation that can lead to
// slowness on many processors when not using a power of two due to unnecessary
// division, this uses a "multiply-and-shift" trick that eliminates all
// divisions as described in a blog post by Daniel Lemire, located at the
// following site at the time of this writing:
// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
//
// Since that link might disappear, the general idea is to multiply by m and
// shift right by the digest width:
//
// (x * m) / 2^width == (x * m) >> width
//
// This is a fair map since it maps integers in the range [0,2^width) to
// multiples of m in [0, m*2^width) and then divides by 2^width to map all
// multiples of m in [0,2^width) to 0, all multiples of m in
// [2^width, 2*2^width) to 1, etc.  This results in either ceil(2^width/m) or
// floor(2^width/m) multiples of m.  The map is only close to uniform when
// 2^width is much larger than m.
//
// The width must be in the range [1, 64].  Digest bits above the width are
// ignored.
func fastReduce(x uint64, width uint, m uint64) uint64 {
	if width < 64 {
		x &= 1<<width - 1
	}

	// This uses math/bits to perform the 128-bit multiplication as the compiler
	// will replace it with the relevant intrinsic on most architectures.
	//
	// The high 64 bits in a 128-bit product is the same as shifting the entire
	// product right by 64 bits.
	hi, lo := bits.Mul64(x, m)
	if width >= 64 {
		return hi
	}

	// The product is less than m * 2^width, so the shifted result is less than
	// m and can't overflow.
	return hi<<(64-width) | lo>>width
}
