package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Aspects selects which aspects are active for a compilation.
type Aspects struct {
	SideEffect bool `yaml:"side_effect"`
	Complexity bool `yaml:"complexity"`
}

// Index controls the supplementary query index (SPEC_FULL.md §2.2).
type Index struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the explicit configuration struct passed to the orchestrator,
// replacing the process-wide global the original prototype used for project
// paths (SPEC_FULL.md §9).
type Config struct {
	Aspects Aspects `yaml:"aspects"`
	Index   Index   `yaml:"index"`

	// Root is the project directory; not part of the YAML body, filled in by
	// Load/Default from the resolved location.
	Root string `yaml:"-"`
}

// Default returns the permissive configuration for a project rooted at dir:
// both aspects and the query index enabled.
func Default(dir string) *Config {
	return &Config{
		Aspects: Aspects{SideEffect: true, Complexity: true},
		Index:   Index{Enabled: true},
		Root:    dir,
	}
}

// Load reads morphc.yaml (or morphc.yml) from dir, walking up to parent
// directories the way the teacher's FindConfig walks for funxy.yaml. Absence
// of a config file is not an error: Default(dir) is returned instead.
func Load(dir string) (*Config, error) {
	path, err := find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(dir), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default(filepath.Dir(path))
	// Unmarshal onto the defaults so keys absent from the YAML keep the
	// permissive default values above.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// SourcePath returns the path of the source file for a unit named name.
func (c *Config) SourcePath(name string) string {
	return filepath.Join(c.Root, SrcDir, name+SourceFileExt)
}

// HashesPath returns the path of the hashes file for a unit named name.
func (c *Config) HashesPath(name string) string {
	return filepath.Join(c.Root, HashesDir, name+HashesFileExt)
}

// HintsPath returns the path of the hints file for a given aspect name.
func (c *Config) HintsPath(aspect string) string {
	return filepath.Join(c.Root, HintsDir, aspect+HintsFileExt)
}

// AnalyticsPath returns the path of the analytics file for a given aspect name.
func (c *Config) AnalyticsPath(aspect string) string {
	return filepath.Join(c.Root, AnalyticsDir, aspect+AnalyticsFileExt)
}

// IndexPath returns the path of the supplementary query index database.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Root, IndexDir, IndexFileName)
}
