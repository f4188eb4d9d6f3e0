package service

import (
	"context"
	"io"

	"github.com/anthanhphan/go-secure-file-storage/internal/config"
	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
	"github.com/anthanhphan/go-secure-file-storage/internal/policy"
	"github.com/anthanhphan/go-secure-file-storage/internal/port"
	"github.com/anthanhphan/go-secure-file-storage/pkg/clock"
)

// FileServiceImpl is the facade that wires use-case services for file operations.
// It holds no mutable state; everything lives in the store.
type FileServiceImpl struct {
	cfg    *config.Config
	store  port.FileStore
	policy *policy.Policy
	clock  clock.Clock

	uploadUseCase *uploadService
	accessUseCase *accessService
	listUseCase   *listService
}

// Ensure FileServiceImpl implements port.FileService.
var _ port.FileService = (*FileServiceImpl)(nil)

// NewFileService builds the file service facade and all use-case services.
func NewFileService(cfg *config.Config, store port.FileStore, pol *policy.Policy, names NameGenerator, clk clock.Clock) *FileServiceImpl {
	if clk == nil {
		clk = clock.SystemClock{}
	}

	svc := &FileServiceImpl{
		cfg:    cfg,
		store:  store,
		policy: pol,
		clock:  clk,
	}

	svc.uploadUseCase = newUploadService(svc, names)
	svc.accessUseCase = newAccessService(svc)
	svc.listUseCase = newListService(svc)

	return svc
}

// Upload delegates validation and storage to the upload use-case service.
func (s *FileServiceImpl) Upload(ctx context.Context, fileName string, reader io.Reader, size int64) (*domain.UploadResult, error) {
	return s.uploadUseCase.upload(ctx, fileName, reader, size)
}

// Download delegates lookup to the access use-case service.
func (s *FileServiceImpl) Download(ctx context.Context, fileName string) (*domain.StoredFile, io.ReadCloser, error) {
	return s.accessUseCase.download(ctx, fileName)
}

// Delete delegates removal to the access use-case service.
func (s *FileServiceImpl) Delete(ctx context.Context, fileName string) (*domain.StoredFile, error) {
	return s.accessUseCase.delete(ctx, fileName)
}

// List delegates enumeration to the list use-case service.
func (s *FileServiceImpl) List(ctx context.Context) (*domain.Listing, error) {
	return s.listUseCase.list(ctx)
}

// Info delegates the summary to the list use-case service.
func (s *FileServiceImpl) Info(ctx context.Context) (*domain.Info, error) {
	return s.listUseCase.info(ctx)
}

// AllowedExtensions returns the allow-set of the upload policy.
func (s *FileServiceImpl) AllowedExtensions() []string {
	return s.policy.Allowed()
}

// maxFileSize returns the configured upload limit.
func (s *FileServiceImpl) maxFileSize() int64 {
	return s.cfg.Storage.MaxFileSize
}
