// Package project locates and parses ember.toml manifests.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up when walking toward the filesystem root.
const ManifestName = "ember.toml"

// DefaultMaxDiagnostics bounds a check run when [check].max_diagnostics is unset.
const DefaultMaxDiagnostics = 100

var (
	// ErrPackageSectionMissing indicates that [package] is missing in a manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing in a manifest.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Manifest is a parsed ember.toml together with its location.
type Manifest struct {
	Path   string // manifest file path
	Root   string // directory containing the manifest
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	// Root is the snapshot directory relative to the manifest. Defaults to
	// the manifest's own directory.
	Root string `toml:"root"`
}

type CheckConfig struct {
	MaxDiagnostics   int  `toml:"max_diagnostics"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

// Find walks from startDir toward the filesystem root looking for ember.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses a manifest file and applies defaults.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !meta.IsDefined("check", "max_diagnostics") {
		cfg.Check.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if cfg.Check.MaxDiagnostics <= 0 {
		return nil, fmt.Errorf("%s: [check].max_diagnostics must be positive", path)
	}

	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// FindAndLoad combines Find and Load. ok is false when no manifest exists
// between startDir and the filesystem root.
func FindAndLoad(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// SnapshotRoot resolves the directory that holds the package's snapshots.
func (m *Manifest) SnapshotRoot() string {
	root := strings.TrimSpace(m.Config.Package.Root)
	if root == "" {
		return m.Root
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Join(m.Root, filepath.FromSlash(root))
}
