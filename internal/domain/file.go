package domain

import (
	"math"
	"time"
)

const (
	bytesPerMiB = 1024 * 1024

	// ListTimeLayout is the listing timestamp format (YYYY-MM-DD HH:MM:SS).
	ListTimeLayout = "2006-01-02 15:04:05"
)

// StoredFile describes a blob under the storage root.
// Size and ModTime always come from the filesystem.
type StoredFile struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// SizeMB returns the file size in MiB rounded to two decimals.
func (f StoredFile) SizeMB() float64 {
	return SizeMB(f.Size)
}

// UploadResult is returned for a successful upload.
type UploadResult struct {
	OriginalName string    `json:"original_name"`
	StorageName  string    `json:"storage_name"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Listing is a snapshot of every stored file.
type Listing struct {
	Files     []StoredFile `json:"files"`
	TotalSize int64        `json:"total_size"`
}

func (l *Listing) Count() int {
	return len(l.Files)
}

// Info summarises the limits the service enforces.
type Info struct {
	MaxFileSize       int64    `json:"max_file_size"`
	AllowedExtensions []string `json:"allowed_extensions"`
	BlockedExtensions []string `json:"blocked_extensions"`
	TotalFiles        int      `json:"total_files"`
}

// SizeMB converts bytes to MiB rounded to two decimals.
func SizeMB(size int64) float64 {
	return math.Round(float64(size)/bytesPerMiB*100) / 100
}
