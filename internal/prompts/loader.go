// Package prompts serves the LLM prompt templates, embedded as JSON
// files keyed by prompt name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

var (
	mu     sync.Mutex
	parsed = make(map[string]map[string]string)
)

// Get returns the prompt template stored under key in the named file.
// Filenames are bare, e.g. "discovery.json".
func Get(filename, key string) (string, error) {
	table, err := load(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := table[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts whose absence is a programming error
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with values from data.
// Placeholders without a matching key are left intact.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func load(filename string) (map[string]string, error) {
	mu.Lock()
	defer mu.Unlock()

	if table, ok := parsed[filename]; ok {
		return table, nil
	}

	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	parsed[filename] = table
	return table, nil
}

// ClearCache drops parsed prompt tables, used by tests
func ClearCache() {
	mu.Lock()
	defer mu.Unlock()
	parsed = make(map[string]map[string]string)
}
