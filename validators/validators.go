// Package validators provides upload validation for file and image fields:
// size bounds, extension and content-type allow-lists, sniffed file-kind
// checks, and image dimension bounds.
package validators

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ValidationError describes a single failed validation with a stable code
// and the parameters that produced the failure.
type ValidationError struct {
	Code    string
	Message string
	Params  map[string]any
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// File is the value all validators operate on: the upload's name, declared
// content type, size, and raw bytes.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// FromMultipart reads a multipart form file into a File
func FromMultipart(header *multipart.FileHeader) (*File, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}

// FromBytes wraps raw bytes as a File
func FromBytes(name string, data []byte) *File {
	return &File{
		Name: name,
		Size: int64(len(data)),
		Data: data,
	}
}

// Extension returns the file's lowercased extension without the leading dot
func (f *File) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
}

// Validator checks one property of an uploaded file
type Validator interface {
	Validate(f *File) error
}

// Apply runs validators in order and returns the first failure
func Apply(f *File, validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(f); err != nil {
			return err
		}
	}
	return nil
}
