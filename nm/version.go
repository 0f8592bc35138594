package nm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinimumVersion is the oldest nmcli release whose terse output this package understands.
const MinimumVersion = "0.9.9.0"

// Ordering is the result of comparing two versions.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	}
	return fmt.Sprintf("Ordering(%d)", int(o))
}

var trailingZeros = regexp.MustCompile(`(\.0+)*$`)

func normalizeVersion(v string) ([]int, error) {
	v = trailingZeros.ReplaceAllString(v, "")
	parts := strings.Split(v, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q", v)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// CompareVersions compares two dotted versions after stripping trailing
// zero components, so "1.2.0" and "1.2" are Equal. When one version is a
// prefix of the other the shorter one is Less.
func CompareVersions(a, b string) (Ordering, error) {
	na, err := normalizeVersion(a)
	if err != nil {
		return Equal, err
	}
	nb, err := normalizeVersion(b)
	if err != nil {
		return Equal, err
	}
	for i := 0; i < len(na) && i < len(nb); i++ {
		switch {
		case na[i] < nb[i]:
			return Less, nil
		case na[i] > nb[i]:
			return Greater, nil
		}
	}
	switch {
	case len(na) < len(nb):
		return Less, nil
	case len(na) > len(nb):
		return Greater, nil
	}
	return Equal, nil
}

// versionToken returns the version from `nmcli --version` output, e.g.
// "nmcli tool, version 1.22.10-1ubuntu2" yields "1.22.10".
func versionToken(output string) string {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return ""
	}
	v := fields[len(fields)-1]
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	return v
}
