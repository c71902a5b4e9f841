package cli

import (
	"fmt"

	"github.com/codalotl/agent-evals/internal/suite"
)

// loadSuite reads a suite.yml path into a fully resolved Suite, including
// its target and graders, entirely from YAML. Any failure here is a
// configuration error.
func loadSuite(path string) (suite.Suite, error) {
	cfg, err := suite.LoadFileConfig(path)
	if err != nil {
		return suite.Suite{}, fmt.Errorf("load suite: %w", err)
	}
	s, err := cfg.ToSuite()
	if err != nil {
		return suite.Suite{}, fmt.Errorf("load suite: %w", err)
	}
	return s, nil
}
