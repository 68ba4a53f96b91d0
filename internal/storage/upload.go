package storage

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrExtensionNotAllowed = errors.New("file type not allowed")

// Kind describes one class of upload: where it lives and which extensions
// are accepted.
type Kind struct {
	Dir     string
	Allowed []string // lower-case, with leading dot
}

var (
	Audio = Kind{Dir: "listening", Allowed: []string{".mp3", ".wav", ".m4a", ".ogg"}}
	Image = Kind{Dir: "writing", Allowed: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}}
)

// Upload is a file received from a client, not yet stored.
type Upload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// Validate checks the file name's extension against the allow-list.
func (k Kind) Validate(fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, a := range k.Allowed {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (allowed: %s)", ErrExtensionNotAllowed, ext, strings.Join(k.Allowed, ", "))
}

// Key builds a fresh storage key for fileName. Every call returns a new key,
// so concurrent uploads of the same file never collide.
func (k Kind) Key(fileName string) string {
	return k.Dir + "/" + uuid.NewString() + "_" + sanitizeName(fileName)
}

// Save validates and stores u, returning the key it was stored under.
func Save(bs BlobStore, k Kind, u Upload) (string, error) {
	if err := k.Validate(u.FileName); err != nil {
		return "", err
	}
	return bs.Put(k.Key(u.FileName), u.Body)
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
