package file_store

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const postImagePrefix = "posts/"

// ImageStore keeps images attached to posts. Keys are stored on the post, urls
// are derived from keys at render time.
type ImageStore interface {
	Store(ctx context.Context, fileName string, r io.Reader) (key string, err error)
	// Delete removes the image stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
	GetUrlFromKey(key string) string
}

// newImageKey returns a unique key that keeps the uploaded file's extension.
func newImageKey(fileName string) string {
	return postImagePrefix + uuid.New().String() + strings.ToLower(path.Ext(fileName))
}
