package port

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrNoFileProvided  = errors.New("no file provided")
	ErrEmptyFilename   = errors.New("empty filename")
	ErrSizeExceeded    = errors.New("file too large")
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	ErrAccessDenied    = errors.New("access denied")
	ErrFileNotFound    = errors.New("file not found")
	ErrDeleteFailed    = errors.New("failed to delete file")
	ErrListUnavailable = errors.New("cannot read files")
)

// SizeExceededError reports an upload larger than the configured maximum.
// Size is zero when the overflow was detected while streaming.
type SizeExceededError struct {
	Limit int64
	Size  int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("%v: maximum %sMB allowed", ErrSizeExceeded, e.LimitMB())
}

func (e *SizeExceededError) Is(target error) bool {
	return target == ErrSizeExceeded
}

// LimitMB formats the limit in MiB without trailing zeros ("5" for 5 MiB).
func (e *SizeExceededError) LimitMB() string {
	return strconv.FormatFloat(float64(e.Limit)/(1024*1024), 'f', -1, 64)
}

// TypeNotAllowedError reports an upload rejected by the extension policy.
type TypeNotAllowedError struct {
	Extension string
	Dangerous bool
}

func (e *TypeNotAllowedError) Error() string {
	switch {
	case e.Extension == "":
		return fmt.Sprintf("%v: missing extension", ErrTypeNotAllowed)
	case e.Dangerous:
		return fmt.Sprintf("%v: %q is blocked", ErrTypeNotAllowed, e.Extension)
	default:
		return fmt.Sprintf("%v: %q is not recognized", ErrTypeNotAllowed, e.Extension)
	}
}

func (e *TypeNotAllowedError) Is(target error) bool {
	return target == ErrTypeNotAllowed
}
