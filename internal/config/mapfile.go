package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadMapFile reads a standalone section → commit types mapping from a
// JSON or YAML file, chosen by extension:
//
//	Fixed: [fix, hotfix]
//	Added: [feat]
func LoadMapFile(path string) (map[string][]string, error) {
	k := koanf.New("\x00")

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parser = json.Parser()
	case ".yml", ".yaml":
		if err := ValidateYAMLSyntax(path); err != nil {
			return nil, err
		}
		parser = yaml.Parser()
	default:
		return nil, fmt.Errorf("unsupported map file %s: expected .json, .yml or .yaml", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading map file %s: %w", path, err)
	}

	m := make(map[string][]string)
	if err := k.Unmarshal("", &m); err != nil {
		return nil, fmt.Errorf("decoding map file %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("map file %s is empty", path)
	}
	return m, nil
}
