package storage

import "io"

// BlobStore keeps uploaded media. Keys are slash-separated relative paths
// such as "listening/<uuid>_track.mp3".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error // a missing key is not an error
	URL(key string) string   // public URL for the key
}
