package backendplugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// DefaultPluginsRoot is where gg looks for backend plugins inside a
// workspace's reserved directory.
const DefaultPluginsRoot = ".gg/backends"

// Registry holds successfully discovered manifests, sorted deterministically
// by plugin_id.
type Registry struct {
	Manifests []Manifest
	ByID      map[string]Manifest
}

// DiscoverAndRegister scans root (non-recursive) for plugin subdirectories,
// each expected to hold a manifest.json. Directories without one are
// skipped; invalid manifests and duplicate plugin IDs are logged and
// skipped rather than treated as fatal, so one broken plugin never
// prevents the rest of the fleet from loading.
func DiscoverAndRegister(root string, log *zap.Logger) (Registry, []error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return Registry{ByID: map[string]Manifest{}}, nil
		}
		log.Warn("failed to read plugins root", zap.String("root", root), zap.Error(err))
		return Registry{ByID: map[string]Manifest{}}, []error{err}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	reg := Registry{ByID: make(map[string]Manifest)}
	var errs []error

	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		pluginDir := filepath.Join(root, ent.Name())
		manifestPath := filepath.Join(pluginDir, "manifest.json")

		if _, statErr := os.Stat(manifestPath); statErr != nil {
			if os.IsNotExist(statErr) {
				continue
			}
			err := fmt.Errorf("stat manifest.json in %q: %w", pluginDir, statErr)
			log.Warn("backendplugin discovery error", zap.Error(err))
			errs = append(errs, err)
			continue
		}

		m, loadErr := LoadManifestFile(manifestPath)
		if loadErr != nil {
			log.Warn("invalid plugin manifest", zap.String("dir", pluginDir), zap.Error(loadErr))
			errs = append(errs, loadErr)
			continue
		}

		if _, exists := reg.ByID[m.PluginID]; exists {
			err := fmt.Errorf("%w: %s", ErrDuplicatePluginID, m.PluginID)
			log.Warn("backendplugin discovery error", zap.Error(err))
			errs = append(errs, err)
			continue
		}
		reg.ByID[m.PluginID] = m
	}

	reg.Manifests = make([]Manifest, 0, len(reg.ByID))
	for _, m := range reg.ByID {
		reg.Manifests = append(reg.Manifests, m)
	}
	sort.Slice(reg.Manifests, func(i, j int) bool { return reg.Manifests[i].PluginID < reg.Manifests[j].PluginID })

	return reg, errs
}
