package palette

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var keyPattern = regexp.MustCompile(`^([A-Z]+)(\d+)$`)

// splitKey splits a bead key such as "A12" into its prefix and number.
func splitKey(key string) (string, int, bool) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}

// CompareKeys orders bead keys by letter prefix and then numerically, so that
// A2 sorts before A10. Keys that do not follow the letter+number pattern compare
// lexically.
func CompareKeys(a, b string) int {
	prefixA, numA, okA := splitKey(a)
	prefixB, numB, okB := splitKey(b)

	if okA && okB {
		if prefixA != prefixB {
			return strings.Compare(prefixA, prefixB)
		}
		switch {
		case numA < numB:
			return -1
		case numA > numB:
			return 1
		default:
			return strings.Compare(a, b)
		}
	}

	return strings.Compare(a, b)
}

// SortKeys sorts keys in place using CompareKeys.
func SortKeys(keys []string) {
	slices.SortStableFunc(keys, CompareKeys)
}

// Group is a set of palette colours sharing a key prefix.
type Group struct {
	Prefix  string
	Colours []Colour
}

// GroupByPrefix groups colours by their letter prefix. Groups are returned in
// prefix order and colours within a group are ordered by number. Keys without a
// letter prefix are collected under "other".
func GroupByPrefix(colours []Colour) []Group {
	byPrefix := make(map[string][]Colour)
	for _, c := range colours {
		prefix := "other"
		if p, _, ok := splitKey(c.Key); ok {
			prefix = p
		} else if i := strings.IndexFunc(c.Key, func(r rune) bool { return r < 'A' || r > 'Z' }); i > 0 {
			prefix = c.Key[:i]
		}
		byPrefix[prefix] = append(byPrefix[prefix], c)
	}

	prefixes := make([]string, 0, len(byPrefix))
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	slices.Sort(prefixes)

	groups := make([]Group, 0, len(prefixes))
	for _, p := range prefixes {
		cs := byPrefix[p]
		slices.SortStableFunc(cs, func(a, b Colour) int { return CompareKeys(a.Key, b.Key) })
		groups = append(groups, Group{Prefix: p, Colours: cs})
	}
	return groups
}
