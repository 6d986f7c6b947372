package backendplugin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Manifest describes one backend plugin: which lifecycle hooks it
// participates in.
type Manifest struct {
	PluginID    string   `json:"plugin_id"`
	Version     string   `json:"version"`
	Hooks       []string `json:"hooks"`
	Description string   `json:"description"`
}

// SupportedHooks returns the set of hook names a manifest may declare.
func SupportedHooks() map[string]struct{} {
	return map[string]struct{}{
		"BeforeExecute": {},
		"AfterExecute":  {},
	}
}

// Validate checks that m names a nonempty plugin_id/version and a
// nonempty, entirely-recognized set of hooks.
func (m Manifest) Validate() error {
	if m.PluginID == "" {
		return fmt.Errorf("%w: %w", ErrManifestInvalid, ErrMissingPluginID)
	}
	if m.Version == "" {
		return fmt.Errorf("%w: %w", ErrManifestInvalid, ErrMissingVersion)
	}
	if m.Hooks == nil {
		return fmt.Errorf("%w: %w", ErrManifestInvalid, ErrMissingHooks)
	}
	if len(m.Hooks) == 0 {
		return fmt.Errorf("%w: %w", ErrManifestInvalid, ErrEmptyHooks)
	}
	supported := SupportedHooks()
	for _, hook := range m.Hooks {
		if _, ok := supported[hook]; !ok {
			return fmt.Errorf("%w: %w: %s", ErrManifestInvalid, ErrUnsupportedHook, hook)
		}
	}
	return nil
}

// ParseManifestJSON decodes and validates a manifest from r, rejecting
// unknown fields and trailing data the same way the rest of gg's JSON
// wire formats do.
func ParseManifestJSON(r io.Reader) (Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %w", ErrManifestMalformed, err)
	}
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return Manifest{}, fmt.Errorf("%w: trailing data", ErrManifestMalformed)
		}
		return Manifest{}, fmt.Errorf("%w: %w", ErrManifestMalformed, err)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// ParseManifestBytes is ParseManifestJSON over an in-memory byte slice.
func ParseManifestBytes(data []byte) (Manifest, error) {
	return ParseManifestJSON(bytes.NewReader(data))
}

// LoadManifestFile reads and parses the manifest at path.
func LoadManifestFile(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, fmt.Errorf("manifest not found: %w", err)
		}
		return Manifest{}, err
	}
	defer f.Close()
	return ParseManifestJSON(f)
}

// LoadManifestDir reads pluginDir/manifest.json.
func LoadManifestDir(pluginDir string) (Manifest, error) {
	return LoadManifestFile(filepath.Join(pluginDir, "manifest.json"))
}
