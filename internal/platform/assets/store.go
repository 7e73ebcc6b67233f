// Package assets stores small named binary files used when rendering
// documents, such as the physician's signature image. It provides a
// filesystem-backed Store, an in-memory Store for tests, and Echo handlers
// for replacing, fetching and removing a single named asset.
package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrAssetTooLarge      = errors.New("asset exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrInvalidName        = errors.New("invalid asset name")
)

// MaxAssetSize is the maximum accepted asset size in bytes (2 MB).
const MaxAssetSize = 2 << 20

// AllowedContentTypes are the sniffed types accepted by Put. Both can be
// placed on a PDF page.
var AllowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// ValidName reports whether name can be used as an asset name. Names are a
// single path element and never start with a dot.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Metadata describes a stored asset.
type Metadata struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Store is the contract shared by asset backends.
type Store interface {
	Put(ctx context.Context, name string, content io.Reader) (*Metadata, error)
	Get(ctx context.Context, name string) ([]byte, *Metadata, error)
	Stat(ctx context.Context, name string) (*Metadata, error)
	Delete(ctx context.Context, name string) error
}

// readAsset reads and validates an upload, returning its bytes and sniffed
// content type.
func readAsset(name string, content io.Reader) ([]byte, string, error) {
	if !ValidName(name) {
		return nil, "", ErrInvalidName
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxAssetSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxAssetSize {
		return nil, "", ErrAssetTooLarge
	}
	contentType := http.DetectContentType(data)
	if !AllowedContentTypes[contentType] {
		return nil, "", ErrInvalidContentType
	}
	return data, contentType, nil
}

func describe(name string, data []byte, modified time.Time) *Metadata {
	return &Metadata{
		Name:        name,
		ContentType: http.DetectContentType(data),
		Size:        int64(len(data)),
		Hash:        fmt.Sprintf("%x", sha256.Sum256(data)),
		ModifiedAt:  modified.UTC(),
	}
}

// ---------------------------------------------------------------------------
// Filesystem implementation
// ---------------------------------------------------------------------------

// FSStore keeps each asset as a file named after it inside dir.
type FSStore struct {
	dir string
	mu  sync.Mutex // serialises writers; readers go straight to the filesystem
}

// NewFSStore returns a store rooted at dir, creating the directory if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Put validates the content and replaces the asset atomically.
func (s *FSStore) Put(_ context.Context, name string, content io.Reader) (*Metadata, error) {
	data, _, err := readAsset(name, content)
	if err != nil {
		return nil, err
	}
	p, _ := s.path(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write asset %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close asset %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return nil, fmt.Errorf("replace asset %s: %w", name, err)
	}
	return describe(name, data, time.Now()), nil
}

// Get returns the asset bytes and metadata.
func (s *FSStore) Get(_ context.Context, name string) ([]byte, *Metadata, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrAssetNotFound
		}
		return nil, nil, fmt.Errorf("stat asset %s: %w", name, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return data, describe(name, data, info.ModTime()), nil
}

// Stat returns metadata without handing out the content.
func (s *FSStore) Stat(ctx context.Context, name string) (*Metadata, error) {
	_, meta, err := s.Get(ctx, name)
	return meta, err
}

// Delete removes the asset.
func (s *FSStore) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("delete asset %s: %w", name, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

type storedAsset struct {
	data     []byte
	modified time.Time
}

// MemoryStore is a thread-safe Store for tests and development.
type MemoryStore struct {
	mu     sync.RWMutex
	assets map[string]storedAsset
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assets: make(map[string]storedAsset)}
}

func (s *MemoryStore) Put(_ context.Context, name string, content io.Reader) (*Metadata, error) {
	data, _, err := readAsset(name, content)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s.mu.Lock()
	s.assets[name] = storedAsset{data: data, modified: now}
	s.mu.Unlock()
	return describe(name, data, now), nil
}

// PutRaw stores data without content validation. Tests use it to plant
// corrupt assets.
func (s *MemoryStore) PutRaw(name string, data []byte) {
	s.mu.Lock()
	s.assets[name] = storedAsset{data: bytes.Clone(data), modified: time.Now()}
	s.mu.Unlock()
}

func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, *Metadata, error) {
	if !ValidName(name) {
		return nil, nil, ErrInvalidName
	}
	s.mu.RLock()
	a, ok := s.assets[name]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrAssetNotFound
	}
	return bytes.Clone(a.data), describe(name, a.data, a.modified), nil
}

func (s *MemoryStore) Stat(ctx context.Context, name string) (*Metadata, error) {
	_, meta, err := s.Get(ctx, name)
	return meta, err
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[name]; !ok {
		return ErrAssetNotFound
	}
	delete(s.assets, name)
	return nil
}
