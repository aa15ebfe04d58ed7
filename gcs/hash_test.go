// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"testing"
)

// TestHashers ensures the provided hashers produce the expected digests and
// report the expected widths.
func TestHashers(t *testing.T) {
	var seqKey [KeySize]byte
	for i := range seqKey {
		seqKey[i] = byte(i)
	}

	tests := []struct {
		name      string // test description
		hasher    Hasher // hasher to test
		data      string // data to hash
		want      uint64 // expected digest
		wantWidth uint   // expected digest width
	}{{
		name:      "siphash-2-4 reference key, empty input",
		hasher:    NewSipHasher(seqKey),
		data:      "",
		want:      0x726fdb47dd0e0e31,
		wantWidth: 64,
	}, {
		name:      "blake256 empty input",
		hasher:    Blake256Hasher{},
		data:      "",
		want:      0x716f6e863f744b9a,
		wantWidth: 64,
	}, {
		name:      "blake3 empty input",
		hasher:    Blake3Hasher{},
		data:      "",
		want:      0xaf1349b9f5f9a1a6,
		wantWidth: 64,
	}, {
		name:      "fnv-1a 64 empty input",
		hasher:    FNV64aHasher{},
		data:      "",
		want:      0xcbf29ce484222325,
		wantWidth: 64,
	}, {
		name:      "fnv-1a 64 \"a\"",
		hasher:    FNV64aHasher{},
		data:      "a",
		want:      0xaf63dc4c8601ec8c,
		wantWidth: 64,
	}, {
		name:      "fnv-1a 32 empty input",
		hasher:    FNV32aHasher{},
		data:      "",
		want:      0x811c9dc5,
		wantWidth: 32,
	}, {
		name:      "fnv-1a 32 \"a\"",
		hasher:    FNV32aHasher{},
		data:      "a",
		want:      0xe40c292c,
		wantWidth: 32,
	}, {
		name: "function hasher",
		hasher: HasherFunc(16, func(data []byte) uint64 {
			return uint64(len(data))
		}),
		data:      "four",
		want:      4,
		wantWidth: 16,
	}}

	for _, test := range tests {
		got := test.hasher.Sum64([]byte(test.data))
		if got != test.want {
			t.Errorf("%q: unexpected digest -- got %#x, want %#x", test.name,
				got, test.want)
			continue
		}
		if width := test.hasher.Bits(); width != test.wantWidth {
			t.Errorf("%q: unexpected width -- got %d, want %d", test.name,
				width, test.wantWidth)
			continue
		}
	}
}

// TestSipHasherKeyed ensures different keys produce different digests.
func TestSipHasherKeyed(t *testing.T) {
	var key1, key2 [KeySize]byte
	key2[0] = 1
	data := []byte("keyed")
	if NewSipHasher(key1).Sum64(data) == NewSipHasher(key2).Sum64(data) {
		t.Fatal("different keys produced the same digest")
	}
	if NewSipHasher(key1).Sum64(data) != NewSipHasher(key1).Sum64(data) {
		t.Fatal("same key produced different digests")
	}
}
