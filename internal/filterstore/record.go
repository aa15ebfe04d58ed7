// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filterstore

import (
	"bytes"
	"fmt"

	"github.com/decred/dcrd/wire"
)

const (
	// recordVersion is the current version of the serialized record format.
	recordVersion = 1

	// MaxNameLen is the maximum allowed length of a filter name.
	MaxNameLen = 255

	// MaxHasherLen is the maximum allowed length of a hasher name.
	MaxHasherLen = 64

	// MaxKeyLen is the maximum allowed length of a hasher key.
	MaxKeyLen = 64

	// MaxFilterLen is the maximum allowed size of a serialized filter.
	MaxFilterLen = 1 << 28

	// recordPver is the protocol version passed to the wire encoding
	// functions.  The variable length encodings do not depend on it.
	recordPver = 0
)

// keyPrefix is the prefix of the database keys for all stored filters.
var keyPrefix = []byte("gcsf")

// Record is a named serialized filter along with the name of the hasher and
// any key that are required to query it.
type Record struct {
	Name   string
	Hasher string
	Key    []byte
	Filter []byte
}

// filterKey returns the database key for the filter with the given name.
func filterKey(name string) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(name))
	key = append(key, keyPrefix...)
	return append(key, name...)
}

// validate ensures the record can be stored.
func (r *Record) validate() error {
	switch {
	case r.Name == "":
		return makeError(ErrInvalidRecord, "filter name must not be empty")
	case len(r.Name) > MaxNameLen:
		str := fmt.Sprintf("filter name of %d bytes exceeds max allowed %d",
			len(r.Name), MaxNameLen)
		return makeError(ErrInvalidRecord, str)
	case r.Hasher == "":
		str := fmt.Sprintf("filter %q has no hasher name", r.Name)
		return makeError(ErrInvalidRecord, str)
	case len(r.Hasher) > MaxHasherLen:
		str := fmt.Sprintf("hasher name of %d bytes exceeds max allowed %d",
			len(r.Hasher), MaxHasherLen)
		return makeError(ErrInvalidRecord, str)
	case len(r.Key) > MaxKeyLen:
		str := fmt.Sprintf("hasher key of %d bytes exceeds max allowed %d",
			len(r.Key), MaxKeyLen)
		return makeError(ErrInvalidRecord, str)
	case len(r.Filter) > MaxFilterLen:
		str := fmt.Sprintf("filter of %d bytes exceeds max allowed %d",
			len(r.Filter), MaxFilterLen)
		return makeError(ErrInvalidRecord, str)
	}
	return nil
}

// serializeRecord returns the database value for the record.  The name is
// part of the key and is not included.
//
// The serialized format is:
//
//	<version><hasher><key><filter>
//
//	Field     Type      Size
//	version   varint    variable
//	hasher    varstring variable
//	key       varbytes  variable
//	filter    varbytes  variable
func serializeRecord(r *Record) []byte {
	size := wire.VarIntSerializeSize(recordVersion) +
		wire.VarIntSerializeSize(uint64(len(r.Hasher))) + len(r.Hasher) +
		wire.VarIntSerializeSize(uint64(len(r.Key))) + len(r.Key) +
		wire.VarIntSerializeSize(uint64(len(r.Filter))) + len(r.Filter)
	buf := bytes.NewBuffer(make([]byte, 0, size))

	// Writes to a bytes.Buffer never fail.
	_ = wire.WriteVarInt(buf, recordPver, recordVersion)
	_ = wire.WriteVarString(buf, recordPver, r.Hasher)
	_ = wire.WriteVarBytes(buf, recordPver, r.Key)
	_ = wire.WriteVarBytes(buf, recordPver, r.Filter)
	return buf.Bytes()
}

// deserializeRecord decodes the database value of the filter with the given
// name.
func deserializeRecord(name string, serialized []byte) (*Record, error) {
	corrupt := func(what string, err error) error {
		str := fmt.Sprintf("stored filter %q: unable to decode %s: %v", name,
			what, err)
		return makeError(ErrCorruption, str)
	}

	r := bytes.NewReader(serialized)
	version, err := wire.ReadVarInt(r, recordPver)
	if err != nil {
		return nil, corrupt("version", err)
	}
	if version != recordVersion {
		str := fmt.Sprintf("stored filter %q has unsupported record version "+
			"%d", name, version)
		return nil, makeError(ErrCorruption, str)
	}
	hasher, err := wire.ReadVarString(r, recordPver)
	if err != nil {
		return nil, corrupt("hasher name", err)
	}
	key, err := wire.ReadVarBytes(r, recordPver, MaxKeyLen, "hasher key")
	if err != nil {
		return nil, corrupt("hasher key", err)
	}
	if len(key) == 0 {
		key = nil
	}
	filter, err := wire.ReadVarBytes(r, recordPver, MaxFilterLen, "filter")
	if err != nil {
		return nil, corrupt("filter", err)
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("stored filter %q has %d trailing bytes", name,
			r.Len())
		return nil, makeError(ErrCorruption, str)
	}

	return &Record{Name: name, Hasher: hasher, Key: key, Filter: filter}, nil
}
