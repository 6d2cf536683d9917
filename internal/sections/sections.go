// Package sections defines resume section keys and the registry that maps
// each key to the renderer responsible for it.
package sections

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Core section keys. These are rendered by dedicated template slots and can
// never be removed from a document's section order.
const (
	Personal         = "personal"
	PersonalInfo     = "personalInfo"
	Summary          = "summary"
	Experience       = "experience"
	Education        = "education"
	Skills           = "skills"
	Projects         = "projects"
	Certifications   = "certifications"
	Languages        = "languages"
	Achievements     = "achievements"
	ExtraCurriculars = "extraCurriculars"
)

var coreKeys = map[string]bool{
	Personal:         true,
	PersonalInfo:     true,
	Summary:          true,
	Experience:       true,
	Education:        true,
	Skills:           true,
	Projects:         true,
	Certifications:   true,
	Languages:        true,
	Achievements:     true,
	ExtraCurriculars: true,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// IsCore reports whether key is a protected core section key
func IsCore(key string) bool {
	return coreKeys[key]
}

// DeriveKey turns a display name into a section key: trimmed, lower-cased,
// with whitespace runs replaced by a single underscore.
// An empty result means the name had no usable characters.
func DeriveKey(displayName string) string {
	trimmed := strings.TrimSpace(displayName)
	return whitespaceRun.ReplaceAllString(strings.ToLower(trimmed), "_")
}

// DisplayName turns a custom section key back into a title
func DisplayName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Custom returns the custom (non-core) keys of order, preserving order
func Custom(order []string) []string {
	out := make([]string, 0, len(order))
	for _, key := range order {
		if !IsCore(key) {
			out = append(out, key)
		}
	}
	return out
}

// Contains reports whether order holds key
func Contains(order []string, key string) bool {
	return slices.Contains(order, key)
}

// Slots is the fixed order in which core sections appear in rendered
// output. A core section's place never depends on the section order; the
// order only decides whether it is shown and where custom sections go.
var Slots = []string{
	Summary,
	Experience,
	Education,
	Projects,
	Skills,
	Certifications,
	Languages,
	Achievements,
	ExtraCurriculars,
}

// NormalizeKey maps a section order entry to its canonical key. Core keys
// match regardless of case; anything else goes through DeriveKey.
func NormalizeKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if IsCore(trimmed) {
		return trimmed
	}
	for core := range coreKeys {
		if strings.EqualFold(core, trimmed) {
			return core
		}
	}
	return DeriveKey(trimmed)
}

// NormalizeOrder canonicalizes every key of order, drops empty and
// duplicate keys keeping the first occurrence, then appends the keys of
// required that are missing, in required's order.
func NormalizeOrder(order, required []string) []string {
	out := make([]string, 0, len(order)+len(required))
	seen := make(map[string]bool, len(order)+len(required))
	add := func(key string) {
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, key)
	}
	for _, key := range order {
		add(NormalizeKey(key))
	}
	for _, key := range required {
		add(key)
	}
	return out
}
