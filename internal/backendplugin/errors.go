package backendplugin

import (
	"errors"
	"io/fs"
)

var (
	// ErrManifestNotFound is matched via errors.Is(err, fs.ErrNotExist).
	ErrManifestNotFound = fs.ErrNotExist
	ErrManifestMalformed = errors.New("backendplugin: manifest malformed")
	ErrManifestInvalid   = errors.New("backendplugin: manifest invalid")
	ErrDuplicatePluginID = errors.New("backendplugin: duplicate plugin_id")
	ErrUnsupportedHook   = errors.New("backendplugin: unsupported hook")
	ErrMissingPluginID   = errors.New("backendplugin: missing plugin_id")
	ErrMissingVersion    = errors.New("backendplugin: missing version")
	ErrMissingHooks      = errors.New("backendplugin: missing hooks")
	ErrEmptyHooks        = errors.New("backendplugin: empty hooks")
)
