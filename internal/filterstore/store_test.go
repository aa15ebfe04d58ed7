// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filterstore

import (
	"errors"
	"reflect"
	"testing"
)

// openTestStore opens a store in a temporary directory that is closed when the
// test finishes.
func openTestStore(t *testing.T, dataDir string) *Store {
	t.Helper()

	s, err := Open(dataDir, 2)
	if err != nil {
		t.Fatalf("unable to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestStorePutGetDelete ensures records round trip through the store, names
// are listed in order, and deleted records are no longer found.
func TestStorePutGetDelete(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	recs := []*Record{
		{Name: "charlie", Hasher: "blake3", Filter: []byte{0x03}},
		{Name: "alpha", Hasher: "siphash", Filter: []byte{0x01, 0x02}},
		{Name: "bravo", Hasher: "fnv64a", Filter: []byte{}},
	}
	for _, rec := range recs {
		if err := s.Put(rec); err != nil {
			t.Fatalf("unexpected err storing %q: %v", rec.Name, err)
		}
	}

	// The cache only holds two records, so at least one of these is loaded
	// from the database.
	for _, want := range recs {
		got, err := s.Get(want.Name)
		if err != nil {
			t.Fatalf("unexpected err loading %q: %v", want.Name, err)
		}
		if got.Name != want.Name || got.Hasher != want.Hasher ||
			len(got.Filter) != len(want.Filter) {

			t.Fatalf("mismatched record -- got %+v, want %+v", got, want)
		}
	}

	names, err := s.Names()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	wantNames := []string{"alpha", "bravo", "charlie"}
	if !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("unexpected names -- got %v, want %v", names, wantNames)
	}

	// Replace a record.
	replaced := &Record{Name: "alpha", Hasher: "blake256", Filter: []byte{9}}
	if err := s.Put(replaced); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := s.Get("alpha")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Hasher != "blake256" {
		t.Fatalf("record not replaced -- got hasher %q", got.Hasher)
	}

	if err := s.Delete("bravo"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := s.Get("bravo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected err -- got %v, want %v", err, ErrNotFound)
	}
	if err := s.Delete("bravo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected err -- got %v, want %v", err, ErrNotFound)
	}
	names, err = s.Names()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	wantNames = []string{"alpha", "charlie"}
	if !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("unexpected names -- got %v, want %v", names, wantNames)
	}
}

// TestStoreInvalidRecord ensures invalid records are not stored.
func TestStoreInvalidRecord(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	err := s.Put(&Record{Name: "", Hasher: "siphash"})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("unexpected err -- got %v, want %v", err, ErrInvalidRecord)
	}
	names, err := s.Names()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("unexpected names in empty store: %v", names)
	}
}

// TestStoreCorruptRecord ensures a corrupt value in the database is reported
// as corruption.
func TestStoreCorruptRecord(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	if err := s.db.Put(filterKey("bad"), []byte{0x01, 0x05}, nil); err != nil {
		t.Fatalf("unable to write raw value: %v", err)
	}
	_, err := s.Get("bad")
	if !errors.Is(err, ErrCorruption) {
		t.Fatalf("unexpected err -- got %v, want %v", err, ErrCorruption)
	}
	var sErr Error
	if !errors.As(err, &sErr) {
		t.Fatalf("unable to extract store error from %v", err)
	}
}

// TestStoreReopen ensures records persist across closing and reopening the
// store and that a closed store reports ErrNotOpen.
func TestStoreReopen(t *testing.T) {
	dataDir := t.TempDir()
	s, err := Open(dataDir, 4)
	if err != nil {
		t.Fatalf("unable to open store: %v", err)
	}
	rec := &Record{Name: "kept", Hasher: "siphash", Filter: []byte{0xaa}}
	if err := s.Put(rec); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected err closing store: %v", err)
	}

	if _, err := s.Get("kept"); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("unexpected err -- got %v, want %v", err, ErrNotOpen)
	}
	if err := s.Put(rec); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("unexpected err -- got %v, want %v", err, ErrNotOpen)
	}
	if _, err := s.Names(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("unexpected err -- got %v, want %v", err, ErrNotOpen)
	}

	s = openTestStore(t, dataDir)
	got, err := s.Get("kept")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Fatalf("mismatched record -- got %+v, want %+v", got, rec)
	}
}
