package validators

import (
	"fmt"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/h2non/filetype"
)

// FileMinSizeValidator rejects files smaller than MinSize bytes. A zero
// MinSize disables the check.
type FileMinSizeValidator struct {
	MinSize int64
}

func (v *FileMinSizeValidator) Validate(f *File) error {
	if v.MinSize > 0 && f.Size < v.MinSize {
		return &ValidationError{
			Code: "min_size",
			Message: fmt.Sprintf(
				"Ensure this file size is equal or greater than %s. Your file size is %s.",
				humanize.IBytes(uint64(v.MinSize)), humanize.IBytes(uint64(f.Size)),
			),
			Params: map[string]any{
				"min_size": v.MinSize,
				"size":     f.Size,
			},
		}
	}
	return nil
}

// FileMaxSizeValidator rejects files larger than MaxSize bytes. A zero
// MaxSize disables the check.
type FileMaxSizeValidator struct {
	MaxSize int64
}

func (v *FileMaxSizeValidator) Validate(f *File) error {
	if v.MaxSize > 0 && f.Size > v.MaxSize {
		return &ValidationError{
			Code: "max_size",
			Message: fmt.Sprintf(
				"Ensure this file size is not greater than %s. Your file size is %s.",
				humanize.IBytes(uint64(v.MaxSize)), humanize.IBytes(uint64(f.Size)),
			),
			Params: map[string]any{
				"max_size": v.MaxSize,
				"size":     f.Size,
			},
		}
	}
	return nil
}

// FileExtensionValidator rejects files whose extension is not in the
// allow-list. Extensions are matched lowercase and without the leading dot.
type FileExtensionValidator struct {
	Extensions []string
}

func (v *FileExtensionValidator) Validate(f *File) error {
	if len(v.Extensions) == 0 {
		return nil
	}

	ext := f.Extension()
	for _, allowed := range v.Extensions {
		if ext == allowed {
			return nil
		}
	}

	return &ValidationError{
		Code:    "extension",
		Message: fmt.Sprintf("File extension %q is not allowed. Allowed extensions are: %v.", ext, v.Extensions),
		Params: map[string]any{
			"extension": ext,
			"allowed":   v.Extensions,
		},
	}
}

// FileContentTypeValidator rejects files whose content type matches none of
// the allow-list patterns. Each pattern is a full-match regular expression
// (e.g. "image/.*"). The content type declared by the client is used when
// present; otherwise it is sniffed from the file bytes.
type FileContentTypeValidator struct {
	ContentTypes []string
}

func (v *FileContentTypeValidator) Validate(f *File) error {
	if len(v.ContentTypes) == 0 {
		return nil
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(f.Data).String()
	}

	for _, pattern := range v.ContentTypes {
		matched, err := regexp.MatchString("^(?:"+pattern+")$", contentType)
		if err != nil {
			return fmt.Errorf("invalid content type pattern %q: %w", pattern, err)
		}
		if matched {
			return nil
		}
	}

	return &ValidationError{
		Code:    "content_type",
		Message: fmt.Sprintf("Files of type %s are not supported.", contentType),
		Params: map[string]any{
			"content_type": contentType,
		},
	}
}

// FileKind is a coarse file classification derived from magic bytes
type FileKind string

const (
	FileKindArchive  FileKind = "archive"
	FileKindAudio    FileKind = "audio"
	FileKindFont     FileKind = "font"
	FileKindImage    FileKind = "image"
	FileKindVideo    FileKind = "video"
	FileKindDocument FileKind = "document"
	FileKindUnknown  FileKind = "unknown"
)

// DetectFileKind classifies file bytes by their magic numbers
func DetectFileKind(data []byte) FileKind {
	switch {
	case filetype.IsArchive(data):
		return FileKindArchive
	case filetype.IsAudio(data):
		return FileKindAudio
	case filetype.IsFont(data):
		return FileKindFont
	case filetype.IsImage(data):
		return FileKindImage
	case filetype.IsVideo(data):
		return FileKindVideo
	case filetype.IsDocument(data):
		return FileKindDocument
	default:
		return FileKindUnknown
	}
}

// FileKindValidator rejects files whose sniffed kind is not in the
// allow-list. Classification ignores the file name and the declared content
// type entirely, only the bytes count.
type FileKindValidator struct {
	Kinds []FileKind
}

func (v *FileKindValidator) Validate(f *File) error {
	if len(v.Kinds) == 0 {
		return nil
	}

	kind := DetectFileKind(f.Data)
	for _, allowed := range v.Kinds {
		if kind == allowed {
			return nil
		}
	}

	return &ValidationError{
		Code:    "file_type",
		Message: fmt.Sprintf("Files of type %s are not supported.", kind),
		Params: map[string]any{
			"file_type": kind,
		},
	}
}
