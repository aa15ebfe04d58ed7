// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"reflect"
	"testing"

	"github.com/decred/slog"
)

// TestParseAndSetDebugLevels ensures debug level strings are validated and
// applied to the expected subsystems.
func TestParseAndSetDebugLevels(t *testing.T) {
	defer setLogLevels(defaultLogLevel)

	tests := []struct {
		name       string                // test description
		debugLevel string                // debug level option
		wantErr    bool                  // whether an error is expected
		wantLevels map[string]slog.Level // expected levels on success
	}{{
		name:       "all subsystems",
		debugLevel: "debug",
		wantLevels: map[string]slog.Level{
			"GCSU": slog.LevelDebug,
			"GCS":  slog.LevelDebug,
			"STOR": slog.LevelDebug,
		},
	}, {
		name:       "individual subsystems",
		debugLevel: "GCS=trace,STOR=warn",
		wantLevels: map[string]slog.Level{
			"GCSU": slog.LevelInfo,
			"GCS":  slog.LevelTrace,
			"STOR": slog.LevelWarn,
		},
	}, {
		name:       "invalid level",
		debugLevel: "loud",
		wantErr:    true,
	}, {
		name:       "invalid subsystem",
		debugLevel: "NOPE=debug",
		wantErr:    true,
	}, {
		name:       "invalid level for subsystem",
		debugLevel: "GCS=loud",
		wantErr:    true,
	}, {
		name:       "missing pair separator",
		debugLevel: "GCS=debug,STOR",
		wantErr:    true,
	}}

	for _, test := range tests {
		setLogLevels(defaultLogLevel)
		err := parseAndSetDebugLevels(test.debugLevel)
		if test.wantErr != (err != nil) {
			t.Errorf("%q: unexpected err -- got %v, want err %v", test.name,
				err, test.wantErr)
			continue
		}
		for subsysID, want := range test.wantLevels {
			if got := subsystemLoggers[subsysID].Level(); got != want {
				t.Errorf("%q: unexpected level for %s -- got %v, want %v",
					test.name, subsysID, got, want)
			}
		}
	}
}

// TestSupportedSubsystems ensures the subsystems are listed in sorted order.
func TestSupportedSubsystems(t *testing.T) {
	want := []string{"GCS", "GCSU", "STOR"}
	if got := supportedSubsystems(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected subsystems -- got %v, want %v", got, want)
	}
}
