// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filterstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/decred/dcrd/container/lru"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// dbName is the name of the database directory within the data directory.
const dbName = "filters.ldb"

// Store houses named serialized filters in a leveldb database along with an
// LRU cache of recently accessed records.  It is safe for concurrent access.
type Store struct {
	// mtx protects the cache so it always agrees with the database.
	mtx   sync.Mutex
	db    *leveldb.DB
	cache *lru.Map[string, *Record]
}

// convertLdbErr converts the passed leveldb error into an error with an
// equivalent error kind and the passed description.  It also sets the passed
// error as the raw error and adds its error string to the description.
func convertLdbErr(ldbErr error, desc string) Error {
	// Use the general backend error kind by default.  The code below will
	// update this with the converted error if it's recognized.
	var kind = ErrBackend

	switch {
	// Database corruption errors.
	case ldberrors.IsCorrupted(ldbErr):
		kind = ErrCorruption

	// Database open/create errors.
	case errors.Is(ldbErr, leveldb.ErrClosed):
		kind = ErrNotOpen
	}

	// Include the original error in description.
	desc = fmt.Sprintf("%s: %v", desc, ldbErr)

	err := makeError(kind, desc)
	err.RawErr = ldbErr
	return err
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// Open loads (or creates when needed) the filter database in the provided data
// directory.  Up to cacheSize records are kept in memory after they are read
// or written.
func Open(dataDir string, cacheSize uint32) (*Store, error) {
	dbPath := filepath.Join(dataDir, dbName)

	// Ensure the full path to the database exists.
	dbExists := fileExists(dbPath)
	if !dbExists {
		// The error can be ignored here since the call to leveldb.OpenFile will
		// fail if the directory couldn't be created.
		_ = os.MkdirAll(dataDir, 0700)
	}

	// Open the database (will create it if needed).  Serialized filters are
	// already compact, so compression is disabled.
	log.Debugf("Loading filter database from '%s'", dbPath)
	opts := opt.Options{
		ErrorIfExist: !dbExists,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, convertLdbErr(err, "failed to open filter database")
	}

	return &Store{
		db:    db,
		cache: lru.NewMap[string, *Record](cacheSize),
	}, nil
}

// Put stores the record, replacing any existing filter with the same name.
//
// The record must not be modified after it is stored.
func (s *Store) Put(rec *Record) error {
	if err := rec.validate(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.db.Put(filterKey(rec.Name), serializeRecord(rec), nil); err != nil {
		str := fmt.Sprintf("failed to store filter %q", rec.Name)
		return convertLdbErr(err, str)
	}
	s.cache.Put(rec.Name, rec)

	log.Debugf("Stored filter %q (%d bytes, hasher %s)", rec.Name,
		len(rec.Filter), rec.Hasher)
	return nil
}

// Get returns the record stored under the given name.  ErrNotFound is returned
// when there is no such record.
//
// NOTE: The returned record is shared with the cache and must NOT be modified.
func (s *Store) Get(name string) (*Record, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if rec, ok := s.cache.Get(name); ok {
		return rec, nil
	}

	serialized, err := s.db.Get(filterKey(name), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			str := fmt.Sprintf("no filter named %q", name)
			return nil, makeError(ErrNotFound, str)
		}
		str := fmt.Sprintf("failed to load filter %q", name)
		return nil, convertLdbErr(err, str)
	}
	rec, err := deserializeRecord(name, serialized)
	if err != nil {
		return nil, err
	}
	s.cache.Put(name, rec)
	return rec, nil
}

// Delete removes the record stored under the given name.  ErrNotFound is
// returned when there is no such record.
func (s *Store) Delete(name string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := filterKey(name)
	exists, err := s.db.Has(key, nil)
	if err != nil {
		str := fmt.Sprintf("failed to look up filter %q", name)
		return convertLdbErr(err, str)
	}
	if !exists {
		str := fmt.Sprintf("no filter named %q", name)
		return makeError(ErrNotFound, str)
	}
	if err := s.db.Delete(key, nil); err != nil {
		str := fmt.Sprintf("failed to delete filter %q", name)
		return convertLdbErr(err, str)
	}
	s.cache.Delete(name)

	log.Debugf("Deleted filter %q", name)
	return nil
}

// Names returns the names of all stored filters in lexicographical order.
func (s *Store) Names() ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix(keyPrefix), nil)
	defer iter.Release()

	var names []string
	for iter.Next() {
		names = append(names, string(iter.Key()[len(keyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, convertLdbErr(err, "failed to iterate filters")
	}
	return names, nil
}

// Close closes the database.  All further operations return ErrNotOpen.
func (s *Store) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cache.Clear()
	if err := s.db.Close(); err != nil {
		return convertLdbErr(err, "failed to close filter database")
	}
	return nil
}
