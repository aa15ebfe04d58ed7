// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
gcsutil builds, stores, and queries Golomb-coded set filters.

Filters are built from newline-delimited items and are either kept in a
leveldb database under the data directory, written to a file, or both.  Stored
filters remember the hash function and key they were built with, so they can be
queried by name alone.  Filter files only contain the filter, so querying them
requires passing the same --hash and --key that were used to build them.

Usage:

	gcsutil [OPTIONS] <build | query | dump | list | delete>

Application Options:

	-A, --appdata=       Path to application home directory (default: ~/.gcsutil)
	-b, --datadir=       Directory to store filters
	    --logdir=        Directory to log output
	    --nofilelogging  Disable file logging
	-d, --debuglevel=    Logging level for all subsystems {trace, debug, info,
	                     warn, error, critical} (default: info)
	    --hash=          Hash function used to map items {siphash, blake256,
	                     blake3, fnv64a, fnv32a} (default: siphash)
	    --key=           Hex-encoded 16-byte SipHash key (default: all zeros)
	    --randkey        Generate a random SipHash key
	    --cachesize=     Maximum number of stored filters to keep in memory
	    --cpuprofile=    Write CPU profile to the specified file
	    --memprofile=    Write mem profile to the specified file
	-V, --version        Display version information and exit

Examples:

	$ gcsutil build --name words --fpbits 16 --randkey < /usr/share/dict/words
	$ gcsutil query --name words apple zzyzx
	$ gcsutil dump --name words --values
	$ gcsutil list
	$ gcsutil delete --name words
*/
package main
