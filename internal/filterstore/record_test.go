// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filterstore

import (
	"bytes"
	"encoding/hex"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected.  It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// TestRecordSerialization ensures records serialize to the expected bytes and
// deserialize back to the same record.
func TestRecordSerialization(t *testing.T) {
	tests := []struct {
		name       string  // test description
		rec        *Record // record to serialize
		serialized []byte  // expected serialized value
	}{{
		name: "siphash filter",
		rec: &Record{
			Name:   "fruit",
			Hasher: "siphash",
			Key:    hexToBytes("0001"),
			Filter: hexToBytes("0102"),
		},
		serialized: hexToBytes("0107" + hex.EncodeToString([]byte("siphash")) +
			"020001" + "020102"),
	}, {
		name: "empty filter bytes",
		rec: &Record{
			Name:   "empty",
			Hasher: "fnv64a",
			Filter: []byte{},
		},
		serialized: hexToBytes("0106" + hex.EncodeToString([]byte("fnv64a")) +
			"00" + "00"),
	}}

	for _, test := range tests {
		got := serializeRecord(test.rec)
		if !bytes.Equal(got, test.serialized) {
			t.Errorf("%q: mismatched serialization -- got %x, want %x",
				test.name, got, test.serialized)
			continue
		}

		rec, err := deserializeRecord(test.rec.Name, got)
		if err != nil {
			t.Errorf("%q: unexpected err: %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(rec, test.rec) {
			t.Errorf("%q: mismatched record -- got %+v, want %+v", test.name,
				rec, test.rec)
			continue
		}
	}
}

// TestDeserializeRecordErrors ensures corrupt values are detected.
func TestDeserializeRecordErrors(t *testing.T) {
	tests := []struct {
		name       string // test description
		serialized []byte // value to deserialize
	}{{
		name:       "empty value",
		serialized: nil,
	}, {
		name:       "unsupported version",
		serialized: hexToBytes("02" + "0161" + "00" + "00"),
	}, {
		name:       "truncated hasher name",
		serialized: hexToBytes("01" + "0561"),
	}, {
		name:       "truncated key",
		serialized: hexToBytes("01" + "0161" + "05aa"),
	}, {
		name:       "key length above limit",
		serialized: hexToBytes("01" + "0161" + "41" + strings.Repeat("aa", 65)),
	}, {
		name:       "truncated filter",
		serialized: hexToBytes("01" + "0161" + "00" + "03aabb"),
	}, {
		name:       "trailing bytes",
		serialized: hexToBytes("01" + "0161" + "00" + "01aa" + "00"),
	}, {
		name:       "filter length above limit",
		serialized: hexToBytes("01" + "0161" + "00" + "feffffffff"),
	}}

	for _, test := range tests {
		_, err := deserializeRecord("test", test.serialized)
		if !errors.Is(err, ErrCorruption) {
			t.Errorf("%q: unexpected err -- got %v, want %v", test.name, err,
				ErrCorruption)
			continue
		}
	}
}

// TestRecordValidate ensures records missing required fields or exceeding the
// limits are rejected.
func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string  // test description
		rec     *Record // record to validate
		wantErr error   // expected error
	}{{
		name:    "valid",
		rec:     &Record{Name: "a", Hasher: "siphash"},
		wantErr: nil,
	}, {
		name:    "empty name",
		rec:     &Record{Hasher: "siphash"},
		wantErr: ErrInvalidRecord,
	}, {
		name:    "long name",
		rec:     &Record{Name: strings.Repeat("n", MaxNameLen+1), Hasher: "siphash"},
		wantErr: ErrInvalidRecord,
	}, {
		name:    "empty hasher",
		rec:     &Record{Name: "a"},
		wantErr: ErrInvalidRecord,
	}, {
		name:    "long hasher",
		rec:     &Record{Name: "a", Hasher: strings.Repeat("h", MaxHasherLen+1)},
		wantErr: ErrInvalidRecord,
	}, {
		name:    "long key",
		rec:     &Record{Name: "a", Hasher: "siphash", Key: make([]byte, MaxKeyLen+1)},
		wantErr: ErrInvalidRecord,
	}}

	for _, test := range tests {
		err := test.rec.validate()
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%q: unexpected err -- got %v, want %v", test.name, err,
				test.wantErr)
			continue
		}
	}
}
