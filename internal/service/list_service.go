package service

import (
	"context"
	"sort"

	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
	"github.com/anthanhphan/go-secure-file-storage/internal/policy"
)

// listService orders store listings and aggregates their sizes.
type listService struct {
	core *FileServiceImpl
}

// newListService creates the list use-case service.
func newListService(core *FileServiceImpl) *listService {
	return &listService{core: core}
}

// list sorts newest first; the random name prefix makes name order meaningless.
func (s *listService) list(ctx context.Context) (*domain.Listing, error) {
	files, err := s.core.store.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})

	listing := &domain.Listing{Files: files}
	for _, f := range files {
		listing.TotalSize += f.Size
	}
	return listing, nil
}

func (s *listService) info(ctx context.Context) (*domain.Info, error) {
	listing, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Info{
		MaxFileSize:       s.core.maxFileSize(),
		AllowedExtensions: s.core.AllowedExtensions(),
		BlockedExtensions: policy.Denied(),
		TotalFiles:        listing.Count(),
	}, nil
}
