// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/decred/golombset/gcs"
	"github.com/decred/golombset/internal/filterstore"
	"github.com/decred/golombset/internal/progresslog"
)

// maxItemSize is the maximum size of a single item read by the build command.
const maxItemSize = 1 << 20

// runCommand executes the command selected on the command line.  Items for the
// build command are read from stdin unless an input file is given, and all
// results are written to out.
func runCommand(ctx context.Context, cfg *config, stdin io.Reader, out io.Writer) error {
	switch cfg.command {
	case "build":
		return runBuild(ctx, cfg, stdin, out)
	case "query":
		return runQuery(cfg, out)
	case "dump":
		return runDump(cfg, out)
	case "list":
		return runList(cfg, out)
	case "delete":
		return runDelete(cfg, out)
	}
	return fmt.Errorf("unknown command %q", cfg.command)
}

// openStore opens the filter store in the configured data directory.
func openStore(cfg *config) (*filterstore.Store, error) {
	return filterstore.Open(cfg.DataDir, cfg.CacheSize)
}

// readItems reads newline-delimited items until EOF.  Blank lines are skipped.
// It returns early with the context error when a shutdown is requested.
func readItems(ctx context.Context, r io.Reader) ([][]byte, error) {
	progressLogger := progresslog.New("Read", gcsuLog)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxItemSize)

	var items [][]byte
	for scanner.Scan() {
		if shutdownRequested(ctx) {
			return nil, ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		item := make([]byte, len(line))
		copy(item, line)
		items = append(items, item)
		progressLogger.LogProgress(item, false)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read items: %w", err)
	}
	progressLogger.Flush()
	gcsuLog.Debugf("Finished reading %d items", progressLogger.Total())

	return items, nil
}

// storedKey returns the key to record alongside a filter built with the named
// hash function.
func storedKey(hasherName string, key []byte) []byte {
	if !keyedHasher(hasherName) {
		return nil
	}
	return key
}

// runBuild builds a filter from the input items and stores it, writes it to a
// file, or both.
func runBuild(ctx context.Context, cfg *config, stdin io.Reader, out io.Writer) error {
	opts := &cfg.Build
	if opts.Name == "" && opts.Out == "" {
		return errors.New("build requires --name, --out, or both")
	}

	input := stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}
	items, err := readItems(ctx, input)
	if err != nil {
		return err
	}

	capacity := opts.Capacity
	if capacity == 0 {
		if len(items) == 0 {
			return errors.New("no items were read -- specify --capacity to " +
				"build an empty filter")
		}
		capacity = uint64(len(items))
	}

	hasher, err := newHasher(cfg.Hash, cfg.hasherKey)
	if err != nil {
		return err
	}
	if keyedHasher(cfg.Hash) && cfg.Key == "" && !cfg.RandKey {
		gcsuLog.Warnf("Using the all-zero %s key -- specify --key or "+
			"--randkey to prevent crafted false positives", cfg.Hash)
	}
	builder, err := gcs.NewBuilder(capacity, opts.FPBits, hasher)
	if err != nil {
		return err
	}
	for _, item := range items {
		builder.Insert(item)
	}
	filter := builder.Pack()
	if uint64(len(items)) > capacity {
		gcsuLog.Warnf("Added %d items to a filter with capacity %d -- the "+
			"false positive rate is about %.3g instead of 1/2^%d",
			len(items), capacity, filter.FPRate(), opts.FPBits)
	}

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, filter.Bytes(), 0644); err != nil {
			return err
		}
		gcsuLog.Infof("Wrote filter to %s", opts.Out)
	}
	if opts.Name != "" {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		rec := &filterstore.Record{
			Name:   opts.Name,
			Hasher: cfg.Hash,
			Key:    storedKey(cfg.Hash, cfg.hasherKey),
			Filter: filter.Bytes(),
		}
		if err := store.Put(rec); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "built filter with %d items (N=%d, P=%d, %d bytes, "+
		"hash %v)\n", filter.Count(), filter.N(), filter.P(),
		len(filter.Bytes()), filter.Hash())
	if cfg.RandKey && keyedHasher(cfg.Hash) {
		fmt.Fprintf(out, "key: %x\n", cfg.hasherKey)
	}
	return nil
}

// loadedFilter is a filter loaded from the store or a file along with the
// details needed to describe it.
type loadedFilter struct {
	name   string
	hasher string
	filter *gcs.Filter
}

// loadFilter loads the filter with the given name from the store or from the
// given file.  Exactly one of them must be specified.  Stored filters use the
// hash function and key they were built with while files use the configured
// ones.
func loadFilter(cfg *config, name, file string) (*loadedFilter, error) {
	switch {
	case name == "" && file == "":
		return nil, errors.New("either --name or --file must be specified")
	case name != "" && file != "":
		return nil, errors.New("--name and --file may not be used together")
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		hasher, err := newHasher(cfg.Hash, cfg.hasherKey)
		if err != nil {
			return nil, err
		}
		filter, err := gcs.FromBytes(data, hasher)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		return &loadedFilter{hasher: cfg.Hash, filter: filter}, nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return loadStoredFilter(store, name)
}

// loadStoredFilter loads the filter with the given name from an open store.
func loadStoredFilter(store *filterstore.Store, name string) (*loadedFilter, error) {
	rec, err := store.Get(name)
	if err != nil {
		return nil, err
	}
	hasher, err := newHasher(rec.Hasher, rec.Key)
	if err != nil {
		return nil, fmt.Errorf("stored filter %q: %w", name, err)
	}
	filter, err := gcs.FromBytes(rec.Filter, hasher)
	if err != nil {
		return nil, fmt.Errorf("stored filter %q: %w", name, err)
	}
	return &loadedFilter{name: name, hasher: rec.Hasher, filter: filter}, nil
}

// matchString returns the text to show for a query result.
func matchString(found bool) string {
	if found {
		return "match"
	}
	return "no match"
}

// runQuery queries a filter for the items given on the command line.
func runQuery(cfg *config, out io.Writer) error {
	opts := &cfg.Query
	lf, err := loadFilter(cfg, opts.Name, opts.File)
	if err != nil {
		return err
	}

	items := opts.Args.Items
	if opts.Any {
		data := make([][]byte, 0, len(items))
		for _, item := range items {
			data = append(data, []byte(item))
		}
		found, err := lf.filter.ContainsAny(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "any: %s\n", matchString(found))
		return nil
	}

	for _, item := range items {
		found, err := lf.filter.Contains([]byte(item))
		if err != nil {
			return fmt.Errorf("query %q: %w", item, err)
		}
		fmt.Fprintf(out, "%s: %s\n", item, matchString(found))
	}
	return nil
}

// runDump shows the parameters of a filter and optionally its values.
func runDump(cfg *config, out io.Writer) error {
	opts := &cfg.Dump
	lf, err := loadFilter(cfg, opts.Name, opts.File)
	if err != nil {
		return err
	}

	f := lf.filter
	if lf.name != "" {
		fmt.Fprintf(out, "name:    %s\n", lf.name)
	}
	fmt.Fprintf(out, "hasher:  %s\n", lf.hasher)
	fmt.Fprintf(out, "N:       %d\n", f.N())
	fmt.Fprintf(out, "P:       %d\n", f.P())
	fmt.Fprintf(out, "M:       %d\n", f.M())
	fmt.Fprintf(out, "count:   %d\n", f.Count())
	fmt.Fprintf(out, "size:    %d bytes\n", len(f.Bytes()))
	fmt.Fprintf(out, "fp rate: %.3g\n", f.FPRate())
	fmt.Fprintf(out, "hash:    %v\n", f.Hash())

	if !opts.Values {
		return nil
	}
	values, err := f.Values()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "values:")
	for _, v := range values {
		fmt.Fprintf(out, "  %d\n", v)
	}
	return nil
}

// runList shows a summary of every stored filter.
func runList(cfg *config, out io.Writer) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.Names()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		gcsuLog.Infof("No filters stored in %s", cfg.DataDir)
		return nil
	}
	for _, name := range names {
		lf, err := loadStoredFilter(store, name)
		if err != nil {
			return err
		}
		f := lf.filter
		fmt.Fprintf(out, "%s\t%s\tN=%d\tP=%d\tcount=%d\t%v\n", name,
			lf.hasher, f.N(), f.P(), f.Count(), f.Hash())
	}
	return nil
}

// runDelete removes a stored filter.
func runDelete(cfg *config, out io.Writer) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cfg.Delete.Name); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", cfg.Delete.Name)
	return nil
}
