package storage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

// ObjectStorage defines the object operations the asset layer needs,
// implemented per backend.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// AssetStore stores uploaded imagery (college and club logos) behind a
// stable API, independent of the configured backend.
type AssetStore struct {
	backend ObjectStorage
}

// NewAssetStore constructs an AssetStore for the provided backend.
func NewAssetStore(backend ObjectStorage) *AssetStore {
	return &AssetStore{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (s *AssetStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// PutLogo uploads a logo image and returns the generated object key.
func (s *AssetStore) PutLogo(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := "logos/" + uuid.NewString() + path.Ext(filename)
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Get opens a reader for a stored asset.
func (s *AssetStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes a stored asset.
func (s *AssetStore) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *AssetStore) Bucket() string {
	return s.backend.Bucket()
}
