package file_store

import (
	"context"
	"io"
	"sync"
)

// FakeImageStore keeps images in memory.
type FakeImageStore struct {
	mu     sync.Mutex
	Images map[string][]byte
}

func NewFakeImageStore() *FakeImageStore {
	return &FakeImageStore{Images: map[string][]byte{}}
}

func (s *FakeImageStore) Store(ctx context.Context, fileName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := newImageKey(fileName)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Images[key] = data
	return key, nil
}

func (*FakeImageStore) GetUrlFromKey(key string) string {
	return "/fake/" + key
}

func (s *FakeImageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Images, key)
	return nil
}
