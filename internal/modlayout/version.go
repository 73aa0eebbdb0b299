package modlayout

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// CoerceVersion extracts the first "major[.minor[.patch]]" run from s and
// returns it in canonical semver form ("v1.4.0"). Missing parts are zero.
func CoerceVersion(s string) (string, bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	parts := [3]int{}
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return "", false
		}
		parts[i] = n
	}
	v := fmt.Sprintf("v%d.%d.%d", parts[0], parts[1], parts[2])
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

type namedVersion struct {
	name    string
	version string
}

// sortVersionsDesc keeps the names that coerce to a version, highest first.
// Equal versions keep their input order.
func sortVersionsDesc(names []string) []namedVersion {
	var out []namedVersion
	for _, n := range names {
		if v, ok := CoerceVersion(n); ok {
			out = append(out, namedVersion{name: n, version: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return semver.Compare(out[i].version, out[j].version) > 0
	})
	return out
}

// HighestVersion returns the name among names with the highest version.
func HighestVersion(names []string) (string, bool) {
	sorted := sortVersionsDesc(names)
	if len(sorted) == 0 {
		return "", false
	}
	return sorted[0].name, true
}
