package backendplugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Plugin is the minimal runtime interface a loaded backend plugin
// implements; which of beforeExecutePlugin/afterExecutePlugin it also
// implements must match what its Manifest declares.
type Plugin interface {
	Manifest() Manifest
}

type beforeExecutePlugin interface {
	BeforeExecute(ctx context.Context, hash string) error
}

type afterExecutePlugin interface {
	AfterExecute(ctx context.Context, hash string, execErr error) error
}

type pluginEntry struct {
	plugin Plugin
	id     string
	hooks  map[string]struct{}
}

// HookEngine runs registered plugins' BeforeExecute/AfterExecute hooks
// around every thunk an ExecutionBackend executes. Plugins always run
// in stable plugin_id order; a panicking or erroring plugin is recorded
// and isolated, never allowed to take down the caller or block its
// siblings.
type HookEngine struct {
	log *zap.Logger

	mu   sync.Mutex
	errs []error
	plug []pluginEntry
}

// NewHookEngine validates and sorts plugins by manifest PluginID,
// rejecting duplicate IDs.
func NewHookEngine(plugins []Plugin, log *zap.Logger) (*HookEngine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries := make([]pluginEntry, 0, len(plugins))
	for _, p := range plugins {
		if p == nil {
			continue
		}
		m := p.Manifest()
		if err := m.Validate(); err != nil {
			return nil, err
		}
		hset := make(map[string]struct{}, len(m.Hooks))
		for _, h := range m.Hooks {
			hset[h] = struct{}{}
		}
		entries = append(entries, pluginEntry{plugin: p, id: m.PluginID, hooks: hset})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	for i := 1; i < len(entries); i++ {
		if entries[i].id == entries[i-1].id {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePluginID, entries[i].id)
		}
	}

	return &HookEngine{log: log, plug: entries}, nil
}

// Errors returns a combined snapshot of every hook error observed so far.
func (e *HookEngine) Errors() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return multierr.Combine(e.errs...)
}

func (e *HookEngine) recordError(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
}

// BeforeExecute runs every plugin's BeforeExecute hook, in plugin_id
// order, for the thunk named by hash.
func (e *HookEngine) BeforeExecute(ctx context.Context, hash string) {
	if e == nil {
		return
	}
	for _, ent := range e.plug {
		if _, ok := ent.hooks["BeforeExecute"]; !ok {
			continue
		}
		h, ok := ent.plugin.(beforeExecutePlugin)
		if !ok {
			e.recordError(fmt.Errorf("plugin %s declares BeforeExecute but does not implement it", ent.id))
			continue
		}
		e.runGuarded(ent.id, "BeforeExecute", func() error { return h.BeforeExecute(ctx, hash) })
	}
}

// AfterExecute runs every plugin's AfterExecute hook, in plugin_id
// order, passing along whatever error (nil on success) the backend
// execution produced.
func (e *HookEngine) AfterExecute(ctx context.Context, hash string, execErr error) {
	if e == nil {
		return
	}
	for _, ent := range e.plug {
		if _, ok := ent.hooks["AfterExecute"]; !ok {
			continue
		}
		h, ok := ent.plugin.(afterExecutePlugin)
		if !ok {
			e.recordError(fmt.Errorf("plugin %s declares AfterExecute but does not implement it", ent.id))
			continue
		}
		e.runGuarded(ent.id, "AfterExecute", func() error { return h.AfterExecute(ctx, hash, execErr) })
	}
}

func (e *HookEngine) runGuarded(pluginID, hookName string, run func() error) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("plugin %s hook %s panic: %v", pluginID, hookName, r)
			e.log.Error("backend plugin hook panicked", zap.String("plugin_id", pluginID), zap.String("hook", hookName), zap.Any("recovered", r))
			e.recordError(err)
		}
	}()
	if err := run(); err != nil {
		wrapped := fmt.Errorf("plugin %s hook %s error: %w", pluginID, hookName, err)
		e.log.Warn("backend plugin hook error", zap.String("plugin_id", pluginID), zap.String("hook", hookName), zap.Error(err))
		e.recordError(wrapped)
	}
}
