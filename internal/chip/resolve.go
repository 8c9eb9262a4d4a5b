package chip

import (
	"regexp"
	"strings"
)

// familyPrefixRE extracts the canonical series prefix from descriptive
// names such as "STM32F103 Medium-density".
var familyPrefixRE = regexp.MustCompile(`STM32[A-Z]\d{3}`)

// matcher is one strategy for mapping a normalized name to a table key.
// It returns the matched key and whether it matched.
type matcher func(name string) (string, bool)

// matchers is the resolution cascade, tried in order, first success wins.
// Each strategy is independently testable and deliberately narrow.
var matchers = []matcher{
	matchExact,
	matchStripSuffix,
	matchKeyPrefix,
	matchFamilyPrefix,
}

// Resolve maps a free-form chip name to a Spec. It never fails: when no
// strategy matches, the default spec is returned and the second return
// value is false so the caller can warn about the unrecognized name.
func Resolve(rawName string) (Spec, bool) {
	name := normalize(rawName)
	for _, match := range matchers {
		if key, ok := match(name); ok {
			return lookup(key), true
		}
	}
	return Default(), false
}

// normalize uppercases the name and strips separators users commonly type.
func normalize(raw string) string {
	name := strings.ToUpper(raw)
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, " ", "")
	return name
}

func matchExact(name string) (string, bool) {
	if _, ok := table[name]; ok {
		return name, true
	}
	return "", false
}

// matchStripSuffix drops the trailing 1-2 characters, which usually encode
// package and temperature grade (T6, T7, U6, ...), and retries the exact
// lookup. Longer suffix first so "STM32F103C8T6" matches "STM32F103C8"
// rather than a shorter accidental key.
func matchStripSuffix(name string) (string, bool) {
	for suffixLen := 2; suffixLen >= 1; suffixLen-- {
		if len(name) <= suffixLen {
			continue
		}
		key := name[:len(name)-suffixLen]
		if _, ok := table[key]; ok {
			return key, true
		}
	}
	return "", false
}

// matchKeyPrefix scans for a table key that prefixes the input, catching
// suffixed part numbers the fixed-length strip misses.
func matchKeyPrefix(name string) (string, bool) {
	for _, key := range sortedKeys {
		if strings.HasPrefix(name, key) {
			return key, true
		}
	}
	return "", false
}

// matchFamilyPrefix extracts a series prefix like "STM32F103" and picks the
// first table entry of that series. Within one prefix the flash/RAM spread
// is small, so a wrong-variant match still yields a usable configuration.
func matchFamilyPrefix(name string) (string, bool) {
	prefix := familyPrefixRE.FindString(name)
	if prefix == "" {
		return "", false
	}
	for _, key := range sortedKeys {
		if strings.HasPrefix(key, prefix) {
			return key, true
		}
	}
	return "", false
}
