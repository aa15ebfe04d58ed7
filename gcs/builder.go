// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

const (
	// MaxP is the maximum allowed value of the false positive parameter P.
	// It is also the width of the Golomb-Rice remainder in bits.
	MaxP = 32

	// maxPreallocValues limits the number of values that are preallocated for
	// a builder based on its capacity hint.
	maxPreallocValues = 1 << 20
)

// uint64s implements sort.Interface for *[]uint64
type uint64s []uint64

func (s *uint64s) Len() int           { return len(*s) }
func (s *uint64s) Less(i, j int) bool { return (*s)[i] < (*s)[j] }
func (s *uint64s) Swap(i, j int)      { (*s)[i], (*s)[j] = (*s)[j], (*s)[i] }

// universeSize validates the capacity and false positive parameters and
// returns the size of the universe the reduced values lie in, N * 2^P.
func universeSize(N uint64, P uint8) (uint64, error) {
	if N == 0 {
		str := "unable to create set with a capacity of zero"
		return 0, makeError(ErrZeroCapacity, str)
	}
	if P > MaxP {
		str := fmt.Sprintf("P value of %d is greater than max allowed %d", P,
			MaxP)
		return 0, makeError(ErrPTooBig, str)
	}
	if N > math.MaxUint64>>P {
		str := fmt.Sprintf("N value of %d with P value of %d overflows the "+
			"universe size", N, P)
		return 0, makeError(ErrNTooBig, str)
	}
	return N << P, nil
}

// Builder is the mutable representation of a Golomb-coded set.  It holds the
// reduced hash of every inserted item as an unencoded sorted list and is
// converted to the immutable compressed Filter with Pack.
//
// Values are appended on insertion and sorted lazily, so Contains, Values and
// Pack may reorder the internal list.  A Builder is not safe for concurrent
// use.
type Builder struct {
	n      uint64
	p      uint8
	m      uint64
	hasher Hasher
	values []uint64
	sorted bool
}

// NewBuilder returns an empty builder for a set that is expected to hold up to
// N items with a false positive rate of 1/2^P when exactly N items are added.
//
// Each item is hashed with the provided hasher and reduced to the universe
// [0, N * 2^P).  The hasher digest width must exceed ceil(log2(N * 2^P)) for
// the advertised false positive rate to hold.  This is not checked.
//
// An error is returned when N is zero, P is greater than MaxP, or N * 2^P does
// not fit in a uint64.
func NewBuilder(N uint64, P uint8, hasher Hasher) (*Builder, error) {
	m, err := universeSize(N, P)
	if err != nil {
		return nil, err
	}

	prealloc := N
	if prealloc > maxPreallocValues {
		prealloc = maxPreallocValues
	}
	return &Builder{
		n:      N,
		p:      P,
		m:      m,
		hasher: hasher,
		values: make([]uint64, 0, prealloc),
		sorted: true,
	}, nil
}

// reduce hashes the data and maps the digest to the universe of the set.
func (b *Builder) reduce(data []byte) uint64 {
	return fastReduce(b.hasher.Sum64(data), b.hasher.Bits(), b.m)
}

// insertValue appends a reduced value while tracking whether the list is still
// sorted.
func (b *Builder) insertValue(v uint64) {
	if b.sorted && len(b.values) > 0 && v < b.values[len(b.values)-1] {
		b.sorted = false
	}
	b.values = append(b.values, v)
}

// Insert adds an item to the set.
//
// There is no upper bound on the number of items.  Adding more than N items
// is allowed and only raises the false positive rate of the resulting set.
func (b *Builder) Insert(data []byte) {
	b.insertValue(b.reduce(data))
}

// InsertChecked adds an item to the set unless it already holds N items, in
// which case ErrCapacityReached is returned and the set is unchanged.
func (b *Builder) InsertChecked(data []byte) error {
	if uint64(len(b.values)) >= b.n {
		str := fmt.Sprintf("unable to add item to set with capacity %d: "+
			"limit reached", b.n)
		return makeError(ErrCapacityReached, str)
	}
	b.Insert(data)
	return nil
}

// InsertFromReader reads r until EOF and adds the entire contents as a single
// item.  Only errors from reading are returned.
func (b *Builder) InsertFromReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.Insert(data)
	return nil
}

// sort sorts the values when they are not already in order.
func (b *Builder) sort() {
	if b.sorted {
		return
	}
	sort.Sort((*uint64s)(&b.values))
	b.sorted = true
}

// Contains returns whether the item is likely a member of the set.  Items that
// were inserted always match.  Items that were not inserted match with the
// false positive rate of the set.
func (b *Builder) Contains(data []byte) bool {
	term := b.reduce(data)
	b.sort()
	i := sort.Search(len(b.values), func(i int) bool {
		return b.values[i] >= term
	})
	return i < len(b.values) && b.values[i] == term
}

// Values returns a sorted copy of the reduced values in the set including any
// duplicates.
func (b *Builder) Values() []uint64 {
	b.sort()
	values := make([]uint64, len(b.values))
	copy(values, b.values)
	return values
}

// Len returns the number of items added to the set.
func (b *Builder) Len() int {
	return len(b.values)
}

// N returns the capacity the set was created with.
func (b *Builder) N() uint64 {
	return b.n
}

// P returns the false positive parameter the set was created with.
func (b *Builder) P() uint8 {
	return b.p
}

// M returns the size of the universe the items are reduced to.
func (b *Builder) M() uint64 {
	return b.m
}

// Pack encodes the set into an immutable Filter.
//
// The sorted values are converted to the differences between consecutive
// values and each difference is written into the filter bitstream as a
// Golomb-Rice codeword with a bin size of 2^P.  Duplicate values result in a
// difference of zero which is encoded like any other.
//
// The builder is left intact and may continue to be used.
func (b *Builder) Pack() *Filter {
	b.sort()

	// Serialize the header up front and let the bitstream follow it in the
	// same buffer.  The header occupies whole bytes, so the bit writer starts
	// out byte aligned.
	count := uint64(len(b.values))
	sizeHint := riceSizeHint(count, b.p)
	w := bitWriter{bytes: make([]byte, headerSize, headerSize+sizeHint)}
	binary.BigEndian.PutUint64(w.bytes[0:8], b.n)
	binary.BigEndian.PutUint64(w.bytes[8:16], count)
	w.bytes[16] = b.p

	var prevValue uint64
	for _, v := range b.values {
		writeGolombRice(&w, v-prevValue, b.p)
		prevValue = v
	}

	log.Tracef("Packed %d values into %d bytes (N=%d, P=%d)", count,
		len(w.bytes)-headerSize, b.n, b.p)

	return &Filter{
		n:           b.n,
		p:           b.p,
		m:           b.m,
		count:       count,
		hasher:      b.hasher,
		filterNData: w.bytes,
		filterData:  w.bytes[headerSize:],
	}
}
