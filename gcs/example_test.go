// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs_test

import (
	"fmt"

	"github.com/decred/golombset/gcs"
)

// This example demonstrates building a set, packing it into a filter, and
// querying the filter after a serialization round trip.
func Example_buildAndQuery() {
	var key [gcs.KeySize]byte
	copy(key[:], "example key 0001")
	hasher := gcs.NewSipHasher(key)

	// Create a set for up to 3 items with a false positive rate of 1/2^20.
	builder, err := gcs.NewBuilder(3, 20, hasher)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, item := range []string{"apple", "banana", "cherry"} {
		builder.Insert([]byte(item))
	}
	fmt.Println("builder contains banana:", builder.Contains([]byte("banana")))

	// Pack the set and load it back from its serialized form.
	filter, err := gcs.FromBytes(builder.Pack().Bytes(), hasher)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("values:", filter.Count())

	found, err := filter.Contains([]byte("cherry"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("filter contains cherry:", found)

	// Output:
	// builder contains banana: true
	// values: 3
	// filter contains cherry: true
}
