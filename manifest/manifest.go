// Package manifest handles render configuration files.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest FindAndLoad looks for.
const FileName = "pixelmachine.toml"

// Manifest describes one render. Relative paths are resolved against Dir.
type Manifest struct {
	Width   int      `toml:"width" json:"width" yaml:"width"`
	Height  int      `toml:"height" json:"height" yaml:"height"`
	Inputs  []string `toml:"inputs" json:"inputs" yaml:"inputs"`
	Output  string   `toml:"output" json:"output" yaml:"output"`
	Program string   `toml:"program" json:"program" yaml:"program"`

	Render RenderConfig `toml:"render" json:"render" yaml:"render"`
	Cache  CacheConfig  `toml:"cache" json:"cache" yaml:"cache"`

	// Dir is the directory containing the manifest (set at load time).
	Dir string `toml:"-" json:"-" yaml:"-"`
}

// RenderConfig tunes the per-pixel driver.
type RenderConfig struct {
	Workers int `toml:"workers" json:"workers" yaml:"workers"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Path     string `toml:"path" json:"path" yaml:"path"`
	Disabled bool   `toml:"disabled" json:"disabled" yaml:"disabled"`
}

// DefaultCachePath is used when the manifest names no cache file.
const DefaultCachePath = ".pixelmachine/cache.db"

// Load parses the manifest at path. The format follows the extension:
// .toml, .json, .yaml or .yml.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &m)
	case ".json":
		err = json.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	if err := Validate(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a pixelmachine.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// ProgramPath returns the absolute path of the program file.
func (m *Manifest) ProgramPath() string {
	return m.resolve(m.Program)
}

// OutputPath returns the absolute path of the output image.
func (m *Manifest) OutputPath() string {
	return m.resolve(m.Output)
}

// InputPaths returns absolute paths for the texture files, in order.
func (m *Manifest) InputPaths() []string {
	paths := make([]string, len(m.Inputs))
	for i, in := range m.Inputs {
		paths[i] = m.resolve(in)
	}
	return paths
}

// CachePath returns the absolute path of the cache database, or "" when
// caching is disabled.
func (m *Manifest) CachePath() string {
	if m.Cache.Disabled {
		return ""
	}
	if m.Cache.Path == "" {
		return m.resolve(DefaultCachePath)
	}
	return m.resolve(m.Cache.Path)
}
