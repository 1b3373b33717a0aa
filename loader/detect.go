// Package loader reads lcspec input files: model configurations in YAML or
// JSON, and previously exported specifications in either external form. It
// auto-detects which of the three an input is, so the CLI can accept any of
// them where that makes sense.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the type of an input file.
type Kind string

const (
	// KindConfig is a model configuration (YAML or JSON).
	KindConfig Kind = "config"
	// KindPathList is an exported tab-separated path list.
	KindPathList Kind = "pathlist"
	// KindEquations is an exported equation-text specification.
	KindEquations Kind = "equations"
)

// DetectKind determines the input kind from content, falling back to the
// file extension for configurations:
//  1. A first content line starting with the path-list header column is a
//     path list.
//  2. A line carrying one of the three equation operators is equation text.
//  3. A .yaml/.yml/.json file (or anything else that survives neither
//     check) is treated as a configuration.
func DetectKind(data []byte, filePath string) (Kind, error) {
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "from\t") {
			return KindPathList, nil
		}
		if strings.Contains(line, " =~ ") || strings.Contains(line, " ~~ ") || strings.Contains(line, " ~ ") {
			return KindEquations, nil
		}
		break
	}

	if isYAML(filePath) || isJSON(filePath) {
		return KindConfig, nil
	}
	return "", fmt.Errorf("unable to detect input kind of %s: not a path list, equation text, or .yaml/.json configuration", filePath)
}

// isYAML returns true if the file path has a YAML extension.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// isJSON returns true if the file path has a JSON extension.
func isJSON(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}
