// Copyright (c) 2018-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package gcs provides an API for building and using a Golomb-coded set filter.

A Golomb-Coded Set (GCS) is a space-efficient probabilistic data structure that
is used to test set membership with a tunable false positive rate while
simultaneously preventing false negatives.  In other words, items that are in
the set will always match, but items that are not in the set will also sometimes
match with the chosen false positive rate.  A GCS is typically smaller than a
Bloom filter with the same false positive rate, but it is slower to query.

# Parameters

Sets are parameterized by:

  - A capacity N that is the expected maximum number of items
  - A parameter P that defines the false positive rate as 1/2^P when the set
    holds exactly N items.  P is also the remainder code bit size.
  - A Hasher that maps each item to a fixed-width digest

Every item is hashed and the digest is reduced to the universe [0, N * 2^P).
The hasher digest width must exceed ceil(log2(N * 2^P)).  This is not checked,
and narrower digests silently raise the false positive rate.

Adding more than N items is permitted.  The false positive rate then grows to
roughly (items added) / (N * 2^P).

# Building and Querying

A Builder holds the reduced values as a sorted list that supports insertion and
binary search.  Packing a Builder produces an immutable Filter that stores the
differences between consecutive sorted values using Golomb-Rice coding with a
bin size of 2^P.  Queries against a Filter decode the differences sequentially
and stop at the first value that is not less than the reduced search term.

Decoding a truncated or otherwise corrupt filter is reported as an error rather
than a miss, so callers can distinguish items that are definitely absent from
filters that can't be read.

# Errors

The errors returned by this package are of type gcs.Error and wrap an
ErrorKind.  This allows the caller to programmatically determine the specific
error with errors.Is while still providing rich error messages with contextual
information.  See ErrorKind in the package documentation for a full list.
*/
package gcs
