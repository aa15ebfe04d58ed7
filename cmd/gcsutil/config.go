// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/decred/golombset/gcs"
	"github.com/decred/golombset/internal/version"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "gcsutil.log"
	defaultDataDirname = "data"
	defaultHash        = hashSipHash
	defaultCacheSize   = 16
	defaultFPBits      = 20
)

var (
	defaultHomeDir = dcrutil.AppDataDir("gcsutil", false)
	defaultDataDir = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir  = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// buildCmd houses the options of the build command.
type buildCmd struct {
	Name     string `short:"n" long:"name" description:"Name to store the filter under"`
	Capacity uint64 `short:"c" long:"capacity" description:"Expected maximum number of items (N) -- 0 uses the number of items read"`
	FPBits   uint8  `short:"p" long:"fpbits" description:"False positive rate exponent (P) -- the rate is 1/2^P when the filter holds N items"`
	Input    string `short:"i" long:"input" description:"File of newline-delimited items (default: standard input)"`
	Out      string `short:"o" long:"out" description:"Write the serialized filter to this file"`
}

// queryCmd houses the options of the query command.
type queryCmd struct {
	Name string `short:"n" long:"name" description:"Name of a stored filter to query"`
	File string `short:"f" long:"file" description:"Serialized filter file to query"`
	Any  bool   `short:"a" long:"any" description:"Report a single result for whether any of the items match"`
	Args struct {
		Items []string `positional-arg-name:"item" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

// dumpCmd houses the options of the dump command.
type dumpCmd struct {
	Name   string `short:"n" long:"name" description:"Name of a stored filter to dump"`
	File   string `short:"f" long:"file" description:"Serialized filter file to dump"`
	Values bool   `long:"values" description:"Also decode and print every value in the filter"`
}

// listCmd houses the options of the list command.
type listCmd struct{}

// deleteCmd houses the options of the delete command.
type deleteCmd struct {
	Name string `short:"n" long:"name" required:"true" description:"Name of the stored filter to delete"`
}

// config defines the configuration options for gcsutil.
//
// See loadConfig for details on the configuration load process.
type config struct {
	HomeDir       string `short:"A" long:"appdata" description:"Path to application home directory" env:"GCSUTIL_APPDATA"`
	DataDir       string `short:"b" long:"datadir" description:"Directory to store filters"`
	LogDir        string `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Hash          string `long:"hash" description:"Hash function used to map items {siphash, blake256, blake3, fnv64a, fnv32a}" env:"GCSUTIL_HASH"`
	Key           string `long:"key" description:"Hex-encoded 16-byte SipHash key (default: all zeros)" env:"GCSUTIL_KEY"`
	RandKey       bool   `long:"randkey" description:"Generate a random SipHash key"`
	CacheSize     uint32 `long:"cachesize" description:"Maximum number of stored filters to keep in memory"`
	CPUProfile    string `long:"cpuprofile" description:"Write CPU profile to the specified file"`
	MemProfile    string `long:"memprofile" description:"Write mem profile to the specified file"`
	ShowVersion   bool   `short:"V" long:"version" description:"Display version information and exit"`

	Build  buildCmd  `command:"build" description:"Build a filter from newline-delimited items"`
	Query  queryCmd  `command:"query" description:"Query a filter for items"`
	Dump   dumpCmd   `command:"dump" description:"Show the parameters and contents of a filter"`
	List   listCmd   `command:"list" description:"List stored filters"`
	Delete deleteCmd `command:"delete" description:"Delete a stored filter"`

	// The following fields are derived from the above fields by loadConfig.
	command   string
	hasherKey []byte
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Nothing to do when no path is given.
	if path == "" {
		return path
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)

	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser to
	// otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
}

// parseHasherKey returns the key for keyed hash functions from the hex
// encoded option or a new random key when requested.  The all-zero key is
// used when neither is provided.
func parseHasherKey(keyHex string, randKey bool) ([]byte, error) {
	if keyHex != "" && randKey {
		return nil, errors.New("--key and --randkey may not be used together")
	}

	key := make([]byte, gcs.KeySize)
	switch {
	case randKey:
		rand.Read(key)

	case keyHex != "":
		decoded, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("malformed --key: %w", err)
		}
		if len(decoded) != gcs.KeySize {
			return nil, fmt.Errorf("--key must be %d bytes, got %d bytes",
				gcs.KeySize, len(decoded))
		}
		key = decoded
	}
	return key, nil
}

// loadConfig initializes and parses the config using command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for the version option
//  3. Parse the command line options and the selected command, overwriting
//     the defaults
//
// The above results in gcsutil functioning properly without any config
// settings while still allowing the user to override settings with
// environment variables and command line options.  Command line options
// always take precedence.
func loadConfig(appName string, args []string) (*config, error) {
	// Default config.
	cfg := config{
		HomeDir:    defaultHomeDir,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		Hash:       defaultHash,
		CacheSize:  defaultCacheSize,
		Build: buildCmd{
			FPBits: defaultFPBits,
		},
	}

	// Pre-parse the command line options to see if the version was
	// requested.  Any errors aside from that are ignored here since they
	// will be caught by the final parse below.
	var preCfg struct {
		ShowVersion bool `short:"V" long:"version"`
	}
	preParser := flags.NewParser(&preCfg, flags.IgnoreUnknown)
	_, _ = preParser.ParseArgs(args)

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	// Parse command line options again to ensure they take precedence.
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	cfg.command = parser.Active.Name

	// Update the data and log directories to be relative to the home
	// directory when only the home directory was changed.
	cfg.HomeDir = cleanAndExpandPath(cfg.HomeDir)
	if cfg.HomeDir != defaultHomeDir {
		if cfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
		}
		if cfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
		}
	}
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.CPUProfile = cleanAndExpandPath(cfg.CPUProfile)
	cfg.MemProfile = cleanAndExpandPath(cfg.MemProfile)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation.  After log rotation has been initialized, the
	// logger variables may be used.
	if !cfg.NoFileLogging {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return nil, err
		}
	}

	// Parse, validate, and set debug log level(s).
	setLogLevels(defaultLogLevel)
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, fmt.Errorf("%s: %w", appName, err)
	}

	if !supportedHasher(cfg.Hash) {
		return nil, fmt.Errorf("%s: unsupported hash function %q (supported: "+
			"%s)", appName, cfg.Hash, strings.Join(hasherNames, ", "))
	}

	key, err := parseHasherKey(cfg.Key, cfg.RandKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", appName, err)
	}
	cfg.hasherKey = key

	if cfg.Build.FPBits > gcs.MaxP {
		return nil, fmt.Errorf("%s: --fpbits must be at most %d", appName,
			gcs.MaxP)
	}

	return &cfg, nil
}
