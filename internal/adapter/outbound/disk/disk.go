package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anthanhphan/go-secure-file-storage/internal/config"
	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
	"github.com/anthanhphan/go-secure-file-storage/internal/port"
	"github.com/anthanhphan/go-secure-file-storage/internal/resolver"
	"github.com/anthanhphan/go-secure-file-storage/pkg/resilience"
)

const (
	// PartialDir holds in-flight uploads. Listings skip it because it is a directory.
	PartialDir = ".partial"

	// Stored blobs are never executable.
	filePerm = 0600
	dirPerm  = 0750
)

// DiskAdapter implements port.FileStore on a single directory.
type DiskAdapter struct {
	resolver    *resolver.Resolver
	maxSize     int64
	fsync       bool
	listWorkers int

	// Filesystem calls made after a successful lookup or directory read.
	readDir    func(name string) ([]os.DirEntry, error)
	openFile   func(name string) (*os.File, error)
	removeFile func(name string) error
}

var _ port.FileStore = (*DiskAdapter)(nil)

// NewDiskAdapter prepares the partial-upload directory under the resolver's root.
func NewDiskAdapter(res *resolver.Resolver, cfg config.StorageConfig) (*DiskAdapter, error) {
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("max file size must be positive, got %d", cfg.MaxFileSize)
	}

	a := &DiskAdapter{
		resolver:    res,
		maxSize:     cfg.MaxFileSize,
		fsync:       cfg.FSync,
		listWorkers: cfg.Workers(),
		readDir:     os.ReadDir,
		openFile:    os.Open,
		removeFile:  os.Remove,
	}
	if err := os.MkdirAll(a.partialPath(), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create partial dir: %w", err)
	}
	return a, nil
}

func (a *DiskAdapter) partialPath() string {
	return filepath.Join(a.resolver.Root(), PartialDir)
}

// Save streams reader into a temp file and links it into place. The
// declared size is checked before anything is written; the stream itself is
// capped at the limit so a lying client cannot overflow it.
func (a *DiskAdapter) Save(ctx context.Context, name string, reader io.Reader, size int64) (*domain.StoredFile, error) {
	if size > a.maxSize {
		return nil, &port.SizeExceededError{Limit: a.maxSize, Size: size}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := a.resolver.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, port.ErrAccessDenied)
	}

	tmp, err := os.CreateTemp(a.partialPath(), filepath.Base(path)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	written, err := io.Copy(tmp, io.LimitReader(reader, a.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if written > a.maxSize {
		return nil, &port.SizeExceededError{Limit: a.maxSize}
	}
	if a.fsync {
		if err := tmp.Sync(); err != nil {
			return nil, fmt.Errorf("failed to sync %s: %w", name, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := publish(tmpName, path); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", name, err)
	}
	committed = true

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return toStoredFile(path, info), nil
}

// publish moves tmp to path without ever replacing an existing file.
func publish(tmp, path string) error {
	err := os.Link(tmp, path)
	if err == nil {
		// The blob is in place; a leftover temp name is harmless.
		_ = os.Remove(tmp)
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return err
	}

	// Hard links are not supported everywhere; fall back to rename.
	if _, statErr := os.Lstat(path); statErr == nil {
		return fs.ErrExist
	}
	return os.Rename(tmp, path)
}

// Open stats before opening so a missing file is a clean ErrFileNotFound.
// A file removed between the two calls is reported the same way.
func (a *DiskAdapter) Open(ctx context.Context, name string) (*domain.StoredFile, io.ReadCloser, error) {
	path, info, err := a.lookup(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	f, err := a.openFile(path) // #nosec G304 -- path is containment-checked
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s: %w", name, port.ErrFileNotFound)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return toStoredFile(path, info), f, nil
}

// List returns regular files only. Entries that disappear while listing are skipped.
func (a *DiskAdapter) List(ctx context.Context) ([]domain.StoredFile, error) {
	entries, err := a.readDir(a.resolver.Root())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrListUnavailable, err)
	}

	found := make([]*domain.StoredFile, len(entries))
	err = resilience.ForEach(ctx, a.listWorkers, len(entries), func(i int) {
		entry := entries[i]
		if !entry.Type().IsRegular() {
			return
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		found[i] = toStoredFile(entry.Name(), info)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrListUnavailable, err)
	}

	files := make([]domain.StoredFile, 0, len(entries))
	for _, f := range found {
		if f != nil {
			files = append(files, *f)
		}
	}
	return files, nil
}

// Delete permanently removes a regular file.
func (a *DiskAdapter) Delete(ctx context.Context, name string) (*domain.StoredFile, error) {
	path, info, err := a.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := a.removeFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, port.ErrFileNotFound)
		}
		return nil, fmt.Errorf("%w: %v", port.ErrDeleteFailed, err)
	}
	return toStoredFile(path, info), nil
}

// lookup resolves name and stats it. Anything but a regular file is not found.
func (a *DiskAdapter) lookup(ctx context.Context, name string) (string, fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	path, ok := a.resolver.Resolve(name)
	if !ok {
		return "", nil, fmt.Errorf("%s: %w", name, port.ErrAccessDenied)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%s: %w", name, port.ErrFileNotFound)
		}
		return "", nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%s: %w", name, port.ErrFileNotFound)
	}
	return path, info, nil
}

func toStoredFile(path string, info fs.FileInfo) *domain.StoredFile {
	return &domain.StoredFile{
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
