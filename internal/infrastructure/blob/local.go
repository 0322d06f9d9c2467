package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"family-health-dashboard/config"
)

var (
	ErrInvalidPath = errors.New("invalid blob path")
	ErrNotFound    = errors.New("blob not found")
)

// Store keeps uploaded binaries and hands back a locator they can be fetched from.
type Store interface {
	Put(ctx context.Context, blobPath string, r io.Reader) (string, error)
}

// LocalStore writes blobs under a root directory. Stored blobs are addressed
// under URLPath and read back through Open.
type LocalStore struct {
	root    string
	urlPath string
}

func NewLocalStore(cfg config.BlobConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &LocalStore{root: cfg.Dir, urlPath: strings.TrimRight(cfg.URLPath, "/")}, nil
}

func (s *LocalStore) URLPath() string {
	return s.urlPath
}

// resolve maps blobPath to its cleaned slash form and its file under root.
func (s *LocalStore) resolve(blobPath string) (string, string, error) {
	clean := path.Clean("/" + blobPath)
	if clean == "/" || strings.Contains(blobPath, "..") {
		return "", "", ErrInvalidPath
	}
	return clean, filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put stores r at blobPath and returns its download URL.
func (s *LocalStore) Put(ctx context.Context, blobPath string, r io.Reader) (string, error) {
	clean, target, err := s.resolve(blobPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create blob parent: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}

	if _, err := io.Copy(f, contextReader{ctx: ctx, r: r}); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close blob: %w", err)
	}

	return s.urlPath + clean, nil
}

// Open returns the regular file stored at blobPath. Directories are reported
// as ErrNotFound, so nothing can be listed.
func (s *LocalStore) Open(blobPath string) (*os.File, fs.FileInfo, error) {
	_, target, err := s.resolve(blobPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat blob: %w", err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
