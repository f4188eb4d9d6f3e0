package port

import (
	"context"
	"io"

	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
)

// FileService defines the business logic for file operations.
type FileService interface {
	// Upload validates and stores a file under a generated storage name.
	Upload(ctx context.Context, fileName string, reader io.Reader, size int64) (*domain.UploadResult, error)

	// Download opens a stored file by its client-supplied name.
	// The caller must close the returned reader.
	Download(ctx context.Context, fileName string) (*domain.StoredFile, io.ReadCloser, error)

	// List returns every stored file, newest first.
	List(ctx context.Context) (*domain.Listing, error)

	// Delete permanently removes a stored file.
	Delete(ctx context.Context, fileName string) (*domain.StoredFile, error)

	// Info reports the enforced limits and current file count.
	Info(ctx context.Context) (*domain.Info, error)

	// AllowedExtensions returns the accepted upload extensions, sorted.
	AllowedExtensions() []string
}
