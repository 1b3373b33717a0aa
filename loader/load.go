package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/latentlab/lcspec"
	"github.com/latentlab/lcspec/export"
)

// LoadConfig reads a configuration file (YAML or JSON by extension),
// validates it, and returns it normalized. Validation problems are
// reported as a DiagnosticError carrying every finding, not just the first.
func LoadConfig(path string) (lcspec.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path from caller
	if err != nil {
		return lcspec.Config{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	return parseConfig(data, path)
}

func parseConfig(data []byte, path string) (lcspec.Config, error) {
	var cfg lcspec.Config
	if isJSON(path) {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return lcspec.Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return lcspec.Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
		}
	}

	diags := cfg.Validate()
	if lcspec.HasErrors(diags) {
		return lcspec.Config{}, &DiagnosticError{Diagnostics: diags}
	}
	return cfg.Normalized(), nil
}

// LoadSpec reads any recognized input and returns a model specification:
// a configuration is built, an exported form is parsed back. The detected
// kind is returned alongside.
func LoadSpec(path string) (*lcspec.ModelSpec, Kind, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path from caller
	if err != nil {
		return nil, "", fmt.Errorf("reading file %s: %w", path, err)
	}

	kind, err := DetectKind(data, path)
	if err != nil {
		return nil, "", err
	}

	switch kind {
	case KindConfig:
		cfg, err := parseConfig(data, path)
		if err != nil {
			return nil, kind, err
		}
		spec, err := lcspec.Build(cfg)
		return spec, kind, err
	case KindPathList:
		spec, err := export.ParsePathList(bytes.NewReader(data))
		return spec, kind, err
	case KindEquations:
		spec, err := export.ParseEquations(bytes.NewReader(data))
		return spec, kind, err
	default:
		return nil, "", fmt.Errorf("unknown input kind %q", kind)
	}
}

// DiagnosticError wraps validation diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []lcspec.Diagnostic
}

func (e *DiagnosticError) Error() string {
	errs := lcspec.Errors(e.Diagnostics)
	if len(errs) == 1 {
		return fmt.Sprintf("validation error: %s", errs[0].Message)
	}
	return fmt.Sprintf("%d validation errors (first: %s)", len(errs), errs[0].Message)
}

// Unwrap lets callers branch on the configuration error class.
func (e *DiagnosticError) Unwrap() error {
	return lcspec.ErrInvalidConfig
}
