package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace describes the reserved gg workspace at a project root: the
// thunk/blob store, discovered backend plugins, logs, and an optional
// config file all live under <projectRoot>/.gg.
type Workspace struct {
	ProjectRoot string
	Dir         string
	StoreDir    string // <Dir>/thunks and <Dir>/blobs, passed to store.NewFileStore(Dir, ...)
	BackendsDir string
	LogsDir     string
	ConfigPath  string
}

var (
	ErrInvalidProjectRoot     = errors.New("invalid project root")
	ErrInvalidWorkspace       = errors.New("invalid .gg workspace")
	ErrUnauthorizedWorkspace  = errors.New("unauthorized entry in .gg")
	ErrWorkspacePathCollision = errors.New("workspace path exists but is not a directory")
)

// DetectProjectRoot returns the current working directory. gg is always
// invoked from a project root with no environment-derived lookups.
func DetectProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("detect project root: %w", err)
	}
	if wd == "" {
		return "", fmt.Errorf("detect project root: %w", ErrInvalidProjectRoot)
	}
	return wd, nil
}

// EnsureWorkspace validates and initializes the .gg workspace at
// projectRoot (the current working directory if empty).
//
// Zero-config: required subdirectories are created if missing.
// Strict: any top-level entry under .gg other than blobs/, thunks/,
// backends/, logs/, and an optional config.json causes an error, the same
// rejection the teacher applies to .scriptweaver.
func EnsureWorkspace(projectRoot string) (Workspace, error) {
	root := projectRoot
	if root == "" {
		var err error
		root, err = DetectProjectRoot()
		if err != nil {
			return Workspace{}, err
		}
	}

	dir := filepath.Join(root, ".gg")
	ws := Workspace{
		ProjectRoot: root,
		Dir:         dir,
		StoreDir:    dir,
		BackendsDir: filepath.Join(dir, "backends"),
		LogsDir:     filepath.Join(dir, "logs"),
		ConfigPath:  filepath.Join(dir, "config.json"),
	}

	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return Workspace{}, fmt.Errorf("stat workspace dir: %w", err)
		}
		if err := os.Mkdir(dir, 0o755); err != nil {
			return Workspace{}, fmt.Errorf("create workspace dir: %w", err)
		}
	} else if !info.IsDir() {
		return Workspace{}, fmt.Errorf("%w: %s", ErrWorkspacePathCollision, dir)
	}

	if err := validateTopLevel(dir); err != nil {
		return Workspace{}, err
	}

	for _, d := range []string{filepath.Join(dir, "blobs"), filepath.Join(dir, "thunks"), ws.BackendsDir, ws.LogsDir} {
		if err := ensureDir(d); err != nil {
			return Workspace{}, err
		}
	}

	return ws, nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s exists but is not a directory", ErrInvalidWorkspace, path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat dir %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", path, err)
	}
	return nil
}

func validateTopLevel(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read workspace dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		switch name {
		case "blobs", "thunks", "backends", "logs":
			if !entry.IsDir() {
				return fmt.Errorf("%w: %s must be a directory", ErrInvalidWorkspace, filepath.Join(dir, name))
			}
		case "config.json":
			if entry.IsDir() {
				return fmt.Errorf("%w: %s must be a file", ErrInvalidWorkspace, filepath.Join(dir, name))
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnauthorizedWorkspace, filepath.Join(dir, name))
		}
	}
	return nil
}
