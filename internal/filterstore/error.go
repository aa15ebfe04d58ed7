// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filterstore

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrNotFound indicates there is no filter stored under the requested
	// name.
	ErrNotFound = ErrorKind("ErrNotFound")

	// ErrCorruption indicates the database or a stored record is corrupt.
	ErrCorruption = ErrorKind("ErrCorruption")

	// ErrBackend indicates an unexpected error from the underlying database.
	ErrBackend = ErrorKind("ErrBackend")

	// ErrNotOpen indicates an operation was attempted on a store that is
	// closed.
	ErrNotOpen = ErrorKind("ErrNotOpen")

	// ErrInvalidRecord indicates a record can't be stored because it is
	// missing required fields or exceeds size limits.
	ErrInvalidRecord = ErrorKind("ErrInvalidRecord")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a filter store error.  It has full support for errors.Is
// and errors.As, so the caller can ascertain the specific reason for the error
// by checking the underlying error.
//
// RawErr holds the error from the underlying database, if any.
type Error struct {
	Err         error
	Description string
	RawErr      error
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
