// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version houses the version information for gcsutil.
package version

import (
	"fmt"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
)

// semanticAlphabet defines the allowed characters for the pre-release and
// build metadata portions of a semantic version string.
const semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// semverRE is a regular expression used to parse a semantic version string into
// its constituent parts.
var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*` +
	`[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

var (
	// Version is the application version per the semantic versioning 2.0.0 spec
	// (https://semver.org/).
	//
	// It may be overridden at build time with:
	// '-ldflags "-X github.com/decred/golombset/internal/version.Version=fullsemver"'
	//
	// It MUST be a full semantic version or the package will panic at init.
	Version = "0.1.0-pre"

	// These fields are set by parsing Version at init.  BuildMetadata falls
	// back to the VCS revision recorded by the Go toolchain when Version does
	// not provide any.
	Major         uint
	Minor         uint
	Patch         uint
	PreRelease    string
	BuildMetadata string
)

// semVer houses the parsed components of a semantic version string.
type semVer struct {
	major, minor, patch uint
	pre, build          string
}

// parseUint converts the passed string to an unsigned integer or returns an
// error if it is invalid.
func parseUint(s string, fieldName string) (uint, error) {
	val, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("malformed semver %s: %w", fieldName, err)
	}
	return uint(val), nil
}

// parseSemVer parses the components of the provided semantic version string.
func parseSemVer(s string) (semVer, error) {
	m := semverRE.FindStringSubmatch(s)
	if m == nil {
		err := fmt.Errorf("malformed version string %q: does not conform to "+
			"semver specification", s)
		return semVer{}, err
	}

	var v semVer
	var err error
	if v.major, err = parseUint(m[1], "major"); err != nil {
		return semVer{}, err
	}
	if v.minor, err = parseUint(m[2], "minor"); err != nil {
		return semVer{}, err
	}
	if v.patch, err = parseUint(m[3], "patch"); err != nil {
		return semVer{}, err
	}
	v.pre, v.build = m[4], m[5]
	return v, nil
}

// vcsRevision returns the abbreviated VCS revision the binary was built from
// or an empty string when it is not known.
func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var vcs, revision string
	for _, bs := range bi.Settings {
		switch bs.Key {
		case "vcs":
			vcs = bs.Value
		case "vcs.revision":
			revision = bs.Value
		}
	}
	if vcs == "git" && len(revision) > 9 {
		revision = revision[:9]
	}
	return revision
}

func init() {
	v, err := parseSemVer(Version)
	if err != nil {
		panic(err)
	}
	if v.build == "" {
		v.build = NormalizeString(vcsRevision())
	}
	Major, Minor, Patch = v.major, v.minor, v.patch
	PreRelease, BuildMetadata = v.pre, v.build
}

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec including the build metadata when known.
func String() string {
	return format(Major, Minor, Patch, PreRelease, BuildMetadata)
}

// format assembles a semantic version string from its components.
func format(major, minor, patch uint, pre, build string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d.%d.%d", major, minor, patch)
	if pre != "" {
		sb.WriteByte('-')
		sb.WriteString(pre)
	}
	if build != "" {
		sb.WriteByte('+')
		sb.WriteString(build)
	}
	return sb.String()
}

// NormalizeString returns the passed string stripped of all characters which
// are not valid according to the semantic versioning guidelines for pre-release
// and build metadata strings.
func NormalizeString(str string) string {
	var sb strings.Builder
	for _, r := range str {
		if strings.ContainsRune(semanticAlphabet, r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
