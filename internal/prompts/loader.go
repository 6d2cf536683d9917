// Package prompts holds the proxy's prompt templates. Each embedded JSON
// file maps a prompt key to a template with {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Set is the parsed content of one prompt file
type Set map[string]string

// Error reports a prompt file or key that could not be resolved
type Error struct {
	File    string
	Key     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	where := e.File
	if e.Key != "" {
		where = fmt.Sprintf("%s[%s]", e.File, e.Key)
	}
	if e.Cause != nil {
		return fmt.Sprintf("prompt %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("prompt %s: %s", where, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

var loaded sync.Map // filename -> Set

// Load parses an embedded prompt file. Parsed files are kept for the life
// of the process.
func Load(filename string) (Set, error) {
	if set, ok := loaded.Load(filename); ok {
		return set.(Set), nil
	}

	raw, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, &Error{File: filename, Message: "failed to read prompt file", Cause: err}
	}
	var set Set
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, &Error{File: filename, Message: "failed to parse prompt file", Cause: err}
	}

	actual, _ := loaded.LoadOrStore(filename, set)
	return actual.(Set), nil
}

// Get returns the template stored under key in filename, e.g. Get("assist.json", "cover-letter")
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := set[key]
	if !ok {
		return "", &Error{File: filename, Key: key, Message: "key not found"}
	}
	return tmpl, nil
}

// MustGet is Get for prompts the proxy cannot run without. It panics on
// a missing file or key.
func MustGet(filename, key string) string {
	tmpl, err := Get(filename, key)
	if err != nil {
		panic(err.Error())
	}
	return tmpl
}

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Format fills {{.Key}} placeholders from data in a single pass, so values
// containing placeholder syntax are not expanded again. Keys missing from
// data are left in place.
func Format(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := data[placeholder.FindStringSubmatch(m)[1]]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct placeholder names of template in order of
// first appearance
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// List returns the prompt keys of a file in sorted order
func List(filename string) ([]string, error) {
	set, err := Load(filename)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(set)), nil
}

// ClearCache drops parsed files
func ClearCache() {
	loaded.Clear()
}
