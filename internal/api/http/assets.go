package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-mock/internal/storage"
)

// MountAssets serves stored media read-only: GET /uploads/<key>.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if key == "" {
			http.NotFound(w, r)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", contentType(key))
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, rc)
	})
}

// mime's built-in table has no audio types; the host's may not either.
var mediaTypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".m4a": "audio/mp4",
	".ogg": "audio/ogg",
}

func contentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ct, ok := mediaTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
