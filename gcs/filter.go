// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2016-2017 The Lightning Network Developers
// Copyright (c) 2018-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/blake256"
)

// headerSize is the size of the serialized filter header which consists of the
// capacity N (8 bytes), the number of encoded values (8 bytes), and P (1 byte).
const headerSize = 8 + 8 + 1

// Filter describes an immutable Golomb-coded set that can be serialized,
// deserialized, and queried in a thread-safe manner.  It is created by packing
// a Builder or by deserializing the bytes returned by Bytes.
//
// The serialized form is the header followed by the Golomb-Rice coded
// differences between the sorted reduced values:
//
//	N     (uint64, big endian)
//	count (uint64, big endian)
//	P     (uint8)
//	codewords, most significant bit first, zero padded to a byte boundary
//
// The hasher is not part of the serialized form and must be the same one used
// to build the filter in order to match items.
type Filter struct {
	n           uint64
	p           uint8
	m           uint64
	count       uint64
	hasher      Hasher
	filterNData []byte // Header followed by the filter bitstream.
	filterData  []byte // Slice into filterNData with raw filter bytes.
}

// FromBytes deserializes a filter as returned by Bytes.  The passed hasher must
// be the one the filter was built with.  The data is copied, so the caller may
// reuse it.
//
// Only the header is validated here.  Corruption in the bitstream is detected
// when it is decoded by Contains, ContainsAny or Values.
func FromBytes(data []byte, hasher Hasher) (*Filter, error) {
	if len(data) < headerSize {
		str := fmt.Sprintf("serialized filter of %d bytes is shorter than "+
			"the %d byte header", len(data), headerSize)
		return nil, makeError(ErrMisserialized, str)
	}

	n := binary.BigEndian.Uint64(data[0:8])
	count := binary.BigEndian.Uint64(data[8:16])
	p := data[16]
	m, err := universeSize(n, p)
	if err != nil {
		return nil, err
	}

	// Every codeword takes at least one bit for the unary terminator and P bits
	// for the remainder.
	streamBits := uint64(len(data)-headerSize) * 8
	if count > streamBits/(uint64(p)+1) {
		str := fmt.Sprintf("filter bitstream of %d bits is too short to hold "+
			"%d values with P value of %d", streamBits, count, p)
		return nil, makeError(ErrMisserialized, str)
	}

	filterNData := make([]byte, len(data))
	copy(filterNData, data)
	return &Filter{
		n:           n,
		p:           p,
		m:           m,
		count:       count,
		hasher:      hasher,
		filterNData: filterNData,
		filterData:  filterNData[headerSize:],
	}, nil
}

// Bytes returns the serialized format of the filter which includes N, the
// number of values and P, but not the hasher.
//
// The returned slice must not be modified.
func (f *Filter) Bytes() []byte {
	return f.filterNData
}

// N returns the capacity the filter was created with.
func (f *Filter) N() uint64 {
	return f.n
}

// P returns the filter's collision probability as a negative power of 2.  For
// example, a collision probability of 1 / 2^20 is represented as 20.
func (f *Filter) P() uint8 {
	return f.p
}

// M returns the size of the universe the items are reduced to.
func (f *Filter) M() uint64 {
	return f.m
}

// Count returns the number of values encoded in the filter including any
// duplicates.
func (f *Filter) Count() uint64 {
	return f.count
}

// FPRate returns the approximate probability that an item which was not added
// matches the filter.  This is count / M, which equals 1/2^P when the filter
// holds exactly N values.
func (f *Filter) FPRate() float64 {
	return float64(f.count) / float64(f.m)
}

// Hash returns the BLAKE256 hash of the serialized filter.
func (f *Filter) Hash() chainhash.Hash {
	return chainhash.Hash(blake256.Sum256(f.filterNData))
}

// reduce hashes the data and maps the digest to the universe of the filter.
func (f *Filter) reduce(data []byte) uint64 {
	return fastReduce(f.hasher.Sum64(data), f.hasher.Bits(), f.m)
}

// readValue reads the next difference from the bitstream and returns it added
// to the previous value.  The index is the zero-based position of the value
// and is only used for error reporting.
func (f *Filter) readValue(r *bitReader, prevValue, index uint64) (uint64, error) {
	delta, err := readGolombRice(r, f.p)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			str := fmt.Sprintf("filter bitstream ended while decoding value "+
				"%d of %d", index+1, f.count)
			return 0, makeError(ErrTruncatedStream, str)
		}
		return 0, err
	}

	value := prevValue + delta
	if value < prevValue || value >= f.m {
		str := fmt.Sprintf("decoded value %d of %d is outside of the "+
			"universe [0, %d)", index+1, f.count, f.m)
		return 0, makeError(ErrCorruptStream, str)
	}
	return value, nil
}

// locate searches the filter for the given reduced value.  It returns whether
// the value was found along with the number of values that were decoded to
// reach the answer.
//
// Since the values are sorted, the search stops at the first value that is
// greater than or equal to the term.
func (f *Filter) locate(term uint64) (bool, uint64, error) {
	r := newBitReader(f.filterData)
	var value uint64
	for i := uint64(0); i < f.count; i++ {
		var err error
		value, err = f.readValue(&r, value, i)
		if err != nil {
			return false, i, err
		}
		if value == term {
			return true, i + 1, nil
		}
		if value > term {
			return false, i + 1, nil
		}
	}

	return false, f.count, nil
}

// Contains checks whether a []byte value is likely (within collision
// probability) to be a member of the set represented by the filter.
//
// An error is returned when the bitstream is truncated or corrupt before the
// answer is known.  A false result with a nil error means the item is
// definitely not in the set.
func (f *Filter) Contains(data []byte) (bool, error) {
	// An empty filter can't possibly match anything.
	if f.count == 0 {
		return false, nil
	}

	found, _, err := f.locate(f.reduce(data))
	return found, err
}

// matchPool pools allocations for match data.
var matchPool sync.Pool

// ContainsAny checks whether any []byte value is likely (within collision
// probability) to be a member of the set represented by the filter faster than
// calling Contains for each value individually.
func (f *Filter) ContainsAny(data [][]byte) (bool, error) {
	// An empty filter or empty data can't possibly match anything.
	if f.count == 0 || len(data) == 0 {
		return false, nil
	}

	// Create an uncompressed filter of the search values.
	var values *[]uint64
	if v := matchPool.Get(); v != nil {
		values = v.(*[]uint64)
		*values = (*values)[:0]
	} else {
		vs := make([]uint64, 0, len(data))
		values = &vs
	}
	defer matchPool.Put(values)
	for _, d := range data {
		*values = append(*values, f.reduce(d))
	}
	sort.Sort((*uint64s)(values))

	// Zip down the filters, comparing values until we either run out of
	// values to compare in one of the filters or we reach a matching
	// value.
	r := newBitReader(f.filterData)
	searchSize := len(data)
	var searchIdx int
	var filterVal uint64
nextFilterVal:
	for i := uint64(0); i < f.count; i++ {
		// Read the next item to compare from the filter.
		var err error
		filterVal, err = f.readValue(&r, filterVal, i)
		if err != nil {
			return false, err
		}

		// Iterate through the values to search until either a match is found
		// or the search value exceeds the current filter value.
		for ; searchIdx < searchSize; searchIdx++ {
			searchVal := (*values)[searchIdx]
			if searchVal == filterVal {
				return true, nil
			}

			// Move to the next filter item once the current search value
			// exceeds it.
			if searchVal > filterVal {
				continue nextFilterVal
			}
		}

		// Exit early when there are no more values to search for.
		break
	}

	return false, nil
}

// Values decodes the entire filter and returns the sorted reduced values it
// holds, including any duplicates.
//
// In addition to the errors returned by Contains, ErrCorruptStream is returned
// when there are whole bytes left over after the final value.
func (f *Filter) Values() ([]uint64, error) {
	values := make([]uint64, 0, f.count)
	r := newBitReader(f.filterData)
	var value uint64
	for i := uint64(0); i < f.count; i++ {
		var err error
		value, err = f.readValue(&r, value, i)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if remaining := r.bitsRemaining(); remaining >= 8 {
		str := fmt.Sprintf("filter bitstream has %d unused bits after the "+
			"final value", remaining)
		return nil, makeError(ErrCorruptStream, str)
	}

	return values, nil
}
