/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package version parses and compares release version numbers, including
// extracting them from the `--version` banner an installed executable
// prints. Used to report drift between the pinned release and whatever is
// already on the host.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// versionToken matches the first release-version-looking token in free text,
// e.g. "prometheus, version 2.53.1 (branch: HEAD, ...)".
var versionToken = regexp.MustCompile(`v?\d+\.\d+(\.\d+)?`)

// Version is a parsed release version. Suffix preserves any metadata after
// the numeric components, e.g. "-rc.1".
type Version struct {
	Major  int    `json:"major" yaml:"major"`
	Minor  int    `json:"minor" yaml:"minor"`
	Patch  int    `json:"patch" yaml:"patch"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// String returns the dotted form without any "v" prefix. The suffix is
// included when present.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, v.Suffix)
}

// Parse parses a release version string. The "v" prefix is optional and a
// trailing "-suffix" or "+metadata" is preserved.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var v Version
	main := s
	for i := 1; i < len(s); i++ {
		if (s[i] == '-' || s[i] == '+') && s[i-1] >= '0' && s[i-1] <= '9' {
			main, v.Suffix = s[:i], s[i:]
			break
		}
	}

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// FromCommandOutput extracts the first version token from a `--version`
// banner and parses it.
func FromCommandOutput(out string) (Version, error) {
	token := versionToken.FindString(out)
	if token == "" {
		return Version{}, fmt.Errorf("no version token in %q", firstLine(out))
	}
	return Parse(token)
}

// Compare returns -1, 0, or 1 as v sorts before, equal to, or after other.
// Suffixes are ignored.
func (v Version) Compare(other Version) int {
	pairs := [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Equals reports whether the numeric components match. Suffixes are ignored.
func (v Version) Equals(other Version) bool {
	return v.Compare(other) == 0
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
