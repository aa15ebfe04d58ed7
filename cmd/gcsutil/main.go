// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/decred/golombset/internal/version"
	flags "github.com/jessevdk/go-flags"
)

// gcsutilMain is the real main function for gcsutil.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func gcsutilMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	cfg, err := loadConfig(appName, os.Args[1:])
	if err != nil {
		// Parse errors have already been shown by the parser.
		var e *flags.Error
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	ctx := shutdownListener()

	gcsuLog.Debugf("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if cfg.NoFileLogging {
		gcsuLog.Debug("File logging disabled")
	}

	// Write cpu profile if requested.
	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			gcsuLog.Errorf("Unable to create cpu profile: %v", err)
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			gcsuLog.Errorf("Unable to start cpu profile: %v", err)
			return err
		}
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	// Write mem profile if requested.
	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			gcsuLog.Errorf("Unable to create mem profile: %v", err)
			return err
		}
		defer f.Close()
		defer pprof.WriteHeapProfile(f)
	}

	if err := runCommand(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		gcsuLog.Errorf("%s: %v", cfg.command, err)
		return err
	}
	return nil
}

func main() {
	if err := gcsutilMain(); err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
