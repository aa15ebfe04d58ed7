// Copyright (c) 2020-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package progresslog provides periodic logging for item ingestion.

Tests are included to ensure proper functionality.

## Feature Overview

- Maintains cumulative totals about ingested items between each logging interval
  - Total number of items
  - Total number of bytes
- Logs all cumulative data every 10 seconds
- Immediately logs any outstanding data when forced, such as at the end of the
  input
*/
package progresslog
