package ingestion

import "fmt"

// TooLargeError is returned when an upload exceeds the size limit.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("file exceeds the %d byte limit", e.Limit)
	}
	return fmt.Sprintf("file is %d bytes, limit is %d", e.Size, e.Limit)
}

// UnsupportedTypeError is returned for files that are not text or HTML.
type UnsupportedTypeError struct {
	Filename string
	MIMEType string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("unsupported file type %s for %s", e.MIMEType, e.Filename)
	}
	return fmt.Sprintf("unsupported file type %s", e.MIMEType)
}

// ReadError wraps failures reading a resume from disk.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}
