// Package caseload loads ordered Case lists from JSONL or YAML files.
package caseload

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codalotl/agent-evals/internal/types"
)

// ErrDuplicateID is returned when a case source declares the same case id twice.
var ErrDuplicateID = errors.New("duplicate case id")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Load reads cases from path, dispatching on its extension. Supported
// extensions are .jsonl, .yaml, and .yml; anything else is an error
// naming the supported formats.
func Load(path string) ([]types.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("caseload: reading %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		return loadJSONL(path, data)
	case ".yaml", ".yml":
		return loadYAML(path, data)
	default:
		return nil, fmt.Errorf("caseload: unsupported case source extension %q for %s (supported: .jsonl, .yaml, .yml)", ext, path)
	}
}

func loadJSONL(path string, data []byte) ([]types.Case, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)

	var cases []types.Case
	seen := make(map[string]int)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		var c types.Case
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("caseload: %s:%d: %w", path, lineNo, err)
		}
		if c.ID == "" {
			return nil, fmt.Errorf("caseload: %s:%d: case is missing an id", path, lineNo)
		}
		if prior, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("caseload: %s:%d: %w %q (first seen at line %d)", path, lineNo, ErrDuplicateID, c.ID, prior)
		}
		seen[c.ID] = lineNo
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("caseload: %s: %w", path, err)
	}
	return cases, nil
}

func loadYAML(path string, data []byte) ([]types.Case, error) {
	var raw yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("caseload: %s: %w", path, err)
	}
	if raw.Kind == 0 {
		return nil, nil
	}
	doc := &raw
	if raw.Kind == yaml.DocumentNode {
		if len(raw.Content) == 0 {
			return nil, nil
		}
		doc = raw.Content[0]
	}
	if doc.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("caseload: %s: top-level YAML value must be a sequence of cases", path)
	}

	cases := make([]types.Case, 0, len(doc.Content))
	seen := make(map[string]int)
	for i, node := range doc.Content {
		var c types.Case
		if err := node.Decode(&c); err != nil {
			return nil, fmt.Errorf("caseload: %s: element %d: %w", path, i, err)
		}
		if c.ID == "" {
			return nil, fmt.Errorf("caseload: %s: element %d: case is missing an id", path, i)
		}
		if prior, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("caseload: %s: element %d: %w %q (first seen at element %d)", path, i, ErrDuplicateID, c.ID, prior)
		}
		seen[c.ID] = i
		cases = append(cases, c)
	}
	return cases, nil
}
