package port

import (
	"context"
	"io"

	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
)

//go:generate mockgen -destination=../service/mocks/file_store_mock.go -package=mocks -source=repository.go

// FileStore owns the blob namespace under the storage root.
// Every name is resolved and containment-checked on each call.
type FileStore interface {
	// Save writes a new blob. It fails with ErrSizeExceeded before writing
	// anything when size is above the limit, and never truncates silently.
	Save(ctx context.Context, name string, reader io.Reader, size int64) (*domain.StoredFile, error)

	// Open returns the blob's metadata and content.
	Open(ctx context.Context, name string) (*domain.StoredFile, io.ReadCloser, error)

	// List returns every regular file in no particular order.
	List(ctx context.Context) ([]domain.StoredFile, error)

	// Delete removes a blob and returns what was removed.
	Delete(ctx context.Context, name string) (*domain.StoredFile, error)
}
