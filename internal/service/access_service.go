package service

import (
	"context"
	"io"

	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
	"github.com/anthanhphan/go-secure-file-storage/internal/port"
)

// accessService serves reads and deletes of client-named files. Containment
// is enforced by the store on every call.
type accessService struct {
	core *FileServiceImpl
}

// newAccessService creates the access use-case service.
func newAccessService(core *FileServiceImpl) *accessService {
	return &accessService{core: core}
}

func (s *accessService) download(ctx context.Context, fileName string) (*domain.StoredFile, io.ReadCloser, error) {
	if fileName == "" {
		return nil, nil, port.ErrEmptyFilename
	}
	return s.core.store.Open(ctx, fileName)
}

func (s *accessService) delete(ctx context.Context, fileName string) (*domain.StoredFile, error) {
	if fileName == "" {
		return nil, port.ErrEmptyFilename
	}
	return s.core.store.Delete(ctx, fileName)
}
