package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrBadKey = errors.New("invalid storage key")

type FSStore struct {
	base      string
	publicURL string // prefix for URL(), e.g. "/uploads"
}

func NewFSStore(base, publicURL string) (*FSStore, error) {
	if base == "" {
		base = "./data/uploads"
	}
	if publicURL == "" {
		publicURL = "/uploads"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// resolve maps a key to a path under base, rejecting anything that would
// escape it.
func (s *FSStore) resolve(key string) (string, error) {
	key = cleanKey(key)
	if key == "" {
		return "", ErrBadKey
	}
	return filepath.Join(s.base, filepath.FromSlash(key)), nil
}

func cleanKey(key string) string {
	return strings.TrimPrefix(path.Clean("/"+key), "/")
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return cleanKey(key), nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *FSStore) Delete(key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FSStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicURL + "/" + cleanKey(key)
}
