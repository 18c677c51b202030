package file_store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	. "github.com/Luismorlan/yatube/utils/log"
)

// LocalImageStore writes images under a directory served by the web server
// itself at urlPrefix.
type LocalImageStore struct {
	basePath  string
	urlPrefix string
}

func NewLocalImageStore(basePath string, urlPrefix string) (*LocalImageStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create image dir %s: %w", basePath, err)
	}
	return &LocalImageStore{basePath: basePath, urlPrefix: urlPrefix}, nil
}

func (s *LocalImageStore) BasePath() string {
	return s.basePath
}

func (s *LocalImageStore) Store(ctx context.Context, fileName string, r io.Reader) (string, error) {
	key := newImageKey(fileName)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	_, err = io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// never leave a partial image behind
		os.Remove(fullPath)
		return "", fmt.Errorf("write image file: %w", err)
	}

	Log.WithField("path", fullPath).Info("image stored")
	return key, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image %s: %w", key, err)
	}
	return nil
}

func (s *LocalImageStore) GetUrlFromKey(key string) string {
	return s.urlPrefix + key
}
