package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// Hash is a local alias so this package reads naturally.
type Hash = ggh.Hash

// Store is the persistence boundary the rest of gg talks to: thunk
// bodies (small, structured, read constantly while the graph walks
// dependencies) and blobs (values and executables — arbitrary bytes,
// read once per backend invocation).
//
// FileStore.LoadThunk also satisfies internal/execgraph's Loader
// interface directly, so an ExecutionGraph can be pointed at a Store
// with no adapter.
type Store interface {
	LoadThunk(hash Hash) (*thunk.Thunk, error)
	WriteThunk(t *thunk.Thunk) (Hash, error)
	ReadBlob(hash Hash) ([]byte, error)
	WriteBlob(tag ggh.Tag, data []byte) (Hash, error)
	HasBlob(hash Hash) bool
}

// FileStore is a Store backed by two flat directories under a root:
// thunks/ holding one JSON document per thunk, blobs/ holding raw value
// and executable bytes, each named by Base(hash).
type FileStore struct {
	root   string
	cache  *lru.Cache[Hash, *thunk.Thunk]
	logger *zap.Logger
}

// NewFileStore creates a FileStore rooted at dir, creating the thunks/
// and blobs/ subdirectories if needed. cacheSize bounds the number of
// decoded thunks kept in memory; logger may be nil (zap.NewNop() is
// substituted).
func NewFileStore(dir string, cacheSize int, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, sub := range []string{"thunks", "blobs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("store: creating %s: %w", sub, err)
		}
	}
	cache, err := lru.New[Hash, *thunk.Thunk](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("store: creating cache: %w", err)
	}
	return &FileStore{root: dir, cache: cache, logger: logger}, nil
}

func (s *FileStore) thunkPath(h Hash) string { return filepath.Join(s.root, "thunks", string(h.Base())) }
func (s *FileStore) blobPath(h Hash) string  { return filepath.Join(s.root, "blobs", string(h.Base())) }

func retryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Second
	return backoff.WithMaxRetries(b, 3)
}

func readFileRetrying(path string) ([]byte, error) {
	var data []byte
	op := func() error {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = b
			return nil
		case os.IsNotExist(err):
			return backoff.Permanent(err)
		default:
			return err
		}
	}
	if err := backoff.Retry(op, retryPolicy()); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadThunk reads and decodes the thunk stored under hash, validating
// that its content actually hashes back to hash before returning it.
// A decoded thunk is cached, so repeated dependency lookups against the
// same hash (common for a shared subgraph) only hit disk once.
func (s *FileStore) LoadThunk(h Hash) (*thunk.Thunk, error) {
	base := h.Base()
	if cached, ok := s.cache.Get(base); ok {
		return cached, nil
	}

	data, err := readFileRetrying(s.thunkPath(base))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Hash: string(base)}
		}
		return nil, fmt.Errorf("store: reading thunk %s: %w", base, err)
	}

	var doc thunk.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Hash: string(base), Msg: err.Error()}
	}
	t, err := thunk.FromDocument(doc)
	if err != nil {
		return nil, &CorruptError{Hash: string(base), Msg: err.Error()}
	}
	if t.Hash() != base {
		return nil, &CorruptError{Hash: string(base), Msg: "stored content does not hash to its filename"}
	}

	s.cache.Add(base, t)
	s.logger.Debug("thunk loaded", zap.String("hash", string(base)))
	return t, nil
}

// WriteThunk serializes t's canonical document and writes it under its
// own content hash, returning that hash.
func (s *FileStore) WriteThunk(t *thunk.Thunk) (Hash, error) {
	h := t.Hash()
	data, err := json.Marshal(t.ToDocument().Normalized())
	if err != nil {
		return "", fmt.Errorf("store: marshaling thunk: %w", err)
	}
	if err := s.atomicWrite(s.thunkPath(h), data); err != nil {
		return "", err
	}
	s.cache.Add(h, t)
	return h, nil
}

// ReadBlob returns the raw bytes stored under hash.
func (s *FileStore) ReadBlob(h Hash) ([]byte, error) {
	base := h.Base()
	data, err := readFileRetrying(s.blobPath(base))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Hash: string(base)}
		}
		return nil, fmt.Errorf("store: reading blob %s: %w", base, err)
	}
	return data, nil
}

// WriteBlob hashes data under tag and writes it, returning the hash it
// was stored under.
func (s *FileStore) WriteBlob(tag ggh.Tag, data []byte) (Hash, error) {
	h := ggh.Compute(tag, data, "")
	if err := s.atomicWrite(s.blobPath(h), data); err != nil {
		return "", err
	}
	return h, nil
}

// HasBlob reports whether hash's blob is present, without reading it —
// the presence check the original implementation's comment in
// thunk/graph.cc calls out as a TODO before running a thunk's
// executable and value dependencies.
func (s *FileStore) HasBlob(h Hash) bool {
	_, err := os.Stat(s.blobPath(h.Base()))
	return err == nil
}

func (s *FileStore) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	op := func() error {
		if _, err := tmp.WriteAt(data, 0); err != nil {
			return err
		}
		return tmp.Sync()
	}
	if err := backoff.Retry(op, retryPolicy()); err != nil {
		tmp.Close()
		return fmt.Errorf("store: writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("store: renaming into place: %w", err)
	}
	return nil
}
