package questionnaire

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

// LoadAnswersFile reads a prepared answer map from a JSON or YAML file,
// keyed by question key. The format is chosen by file extension; anything
// not ending in .yaml/.yml is treated as JSON.
func LoadAnswersFile(path string) (types.AnswerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	answers := types.AnswerMap{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("failed to parse YAML answers file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("failed to parse JSON answers file %s: %w", path, err)
		}
	}

	if len(answers) == 0 {
		return nil, fmt.Errorf("answers file %s is empty", path)
	}
	return answers, nil
}
