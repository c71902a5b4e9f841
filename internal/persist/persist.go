// Package persist reads and writes Run artifacts as byte-stable JSON,
// applying strict structural validation at both boundaries.
package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/codalotl/agent-evals/internal/types"
)

// Write serializes run as indented JSON and writes it to path, after
// validating its structural invariants.
func Write(path string, run types.Run) error {
	if err := types.ValidateRun(run); err != nil {
		return fmt.Errorf("persist: refusing to write invalid run: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: marshaling run: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persist: writing %s: %w", path, err)
	}
	return nil
}

// Read loads and validates a Run artifact from path.
func Read(path string) (types.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Run{}, fmt.Errorf("persist: reading %s: %w", path, err)
	}
	var run types.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return types.Run{}, fmt.Errorf("persist: parsing %s: %w", path, err)
	}
	if err := types.ValidateRun(run); err != nil {
		return types.Run{}, fmt.Errorf("persist: %s fails schema validation: %w", path, err)
	}
	return run, nil
}
