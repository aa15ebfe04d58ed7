// Copyright (c) 2019-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrZeroCapacity indicates a set was requested with a capacity (N) of
	// zero which would result in an empty universe.
	ErrZeroCapacity = ErrorKind("ErrZeroCapacity")

	// ErrNTooBig indicates the universe size N * 2^P does not fit in a 64-bit
	// unsigned integer.
	ErrNTooBig = ErrorKind("ErrNTooBig")

	// ErrPTooBig indicates the false positive parameter P exceeds MaxP.
	ErrPTooBig = ErrorKind("ErrPTooBig")

	// ErrCapacityReached indicates a checked insertion was attempted on a
	// builder that already holds N values.
	ErrCapacityReached = ErrorKind("ErrCapacityReached")

	// ErrMisserialized indicates a serialized filter is missing header fields
	// or is too short to hold the number of values it claims.
	ErrMisserialized = ErrorKind("ErrMisserialized")

	// ErrTruncatedStream indicates the encoded bitstream ended in the middle
	// of a codeword or before all of the claimed values were decoded.
	ErrTruncatedStream = ErrorKind("ErrTruncatedStream")

	// ErrCorruptStream indicates the encoded bitstream decoded to values that
	// are impossible for the filter parameters, such as a value outside of
	// the universe or trailing data after the final codeword.
	ErrCorruptStream = ErrorKind("ErrCorruptStream")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a filter-related error.  It has full support for errors.Is
// and errors.As, so the caller can ascertain the specific reason for the error
// by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
