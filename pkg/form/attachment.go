package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNoContent is returned by Open when an attachment has no content source.
var ErrNoContent = errors.New("form: attachment has no content")

// Attachment references the selected profile picture. Validation only looks
// at MediaType and Size; the content is opened when the form is submitted.
type Attachment struct {
	Filename  string
	MediaType string
	Size      int64

	open func() (io.ReadCloser, error)
}

// NewAttachment builds an attachment from explicit metadata and an opener.
func NewAttachment(filename, mediaType string, size int64, open func() (io.ReadCloser, error)) *Attachment {
	return &Attachment{
		Filename:  filename,
		MediaType: strings.TrimSpace(mediaType),
		Size:      size,
		open:      open,
	}
}

// AttachmentFromBytes wraps in-memory content. When mediaType is empty the
// type is sniffed from the content.
func AttachmentFromBytes(filename, mediaType string, data []byte) *Attachment {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = mimetype.Detect(data).String()
	}
	payload := append([]byte(nil), data...)
	return NewAttachment(filename, mediaType, int64(len(payload)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	})
}

// AttachmentFromPath references a file on disk. The media type is sniffed
// from the file content rather than trusted from the extension.
func AttachmentFromPath(path string) (*Attachment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("form: attachment path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("form: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("form: %s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("form: detect media type of %s: %w", path, err)
	}
	return NewAttachment(filepath.Base(path), mt.String(), info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// AttachmentFromFileHeader adapts an uploaded multipart part. The media type
// is the one the client declared for the part. An empty file input (no
// filename, no bytes) yields nil so the slot reads as absent.
func AttachmentFromFileHeader(fh *multipart.FileHeader) *Attachment {
	if fh == nil {
		return nil
	}
	if strings.TrimSpace(fh.Filename) == "" && fh.Size == 0 {
		return nil
	}
	return NewAttachment(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, func() (io.ReadCloser, error) {
		return fh.Open()
	})
}

// Open returns a reader over the attachment content.
func (a *Attachment) Open() (io.ReadCloser, error) {
	if a == nil || a.open == nil {
		return nil, ErrNoContent
	}
	return a.open()
}

// BaseMediaType returns the lower-cased media type without parameters, so
// "image/PNG; q=1" compares equal to "image/png".
func (a *Attachment) BaseMediaType() string {
	if a == nil {
		return ""
	}
	base, _, _ := strings.Cut(a.MediaType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
