package service

import (
	"context"
	"io"
	"time"

	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
	"github.com/anthanhphan/go-secure-file-storage/internal/policy"
	"github.com/anthanhphan/go-secure-file-storage/internal/port"
)

// NameGenerator defines storage name generation capability.
type NameGenerator interface {
	Generate(original string, now time.Time) string
}

// uploadService gates uploads on size and type, then stores them under a generated name.
type uploadService struct {
	core  *FileServiceImpl
	names NameGenerator
}

// newUploadService creates the upload use-case service.
func newUploadService(core *FileServiceImpl, names NameGenerator) *uploadService {
	return &uploadService{core: core, names: names}
}

// upload checks the declared size before the extension so an oversized
// request is rejected without inspecting anything else.
func (s *uploadService) upload(ctx context.Context, fileName string, reader io.Reader, size int64) (*domain.UploadResult, error) {
	if reader == nil {
		return nil, port.ErrNoFileProvided
	}
	if fileName == "" {
		return nil, port.ErrEmptyFilename
	}
	if limit := s.core.maxFileSize(); size > limit {
		return nil, &port.SizeExceededError{Limit: limit, Size: size}
	}
	if err := s.checkType(fileName); err != nil {
		return nil, err
	}

	now := s.core.clock.Now()
	stored, err := s.core.store.Save(ctx, s.names.Generate(fileName, now), reader, size)
	if err != nil {
		return nil, err
	}

	return &domain.UploadResult{
		OriginalName: fileName,
		StorageName:  stored.Name,
		Size:         stored.Size,
		UploadedAt:   now,
	}, nil
}

// checkType accepts only extensions the policy classifies as allowed.
func (s *uploadService) checkType(fileName string) error {
	class := s.core.policy.Classify(fileName)
	if class == policy.Allowed {
		return nil
	}

	ext, _ := policy.Extension(fileName)
	return &port.TypeNotAllowedError{Extension: ext, Dangerous: class == policy.Dangerous}
}
