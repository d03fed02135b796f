package validators

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for the image formats accepted as uploads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeImageConfig reads only the image header, never the full pixel data
func decodeImageConfig(f *File) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return image.Config{}, &ValidationError{
			Code:    "invalid_image",
			Message: "Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
			Params: map[string]any{
				"name": f.Name,
			},
		}
	}
	return cfg, nil
}

// ImageMinSizeValidator rejects images narrower or shorter than the given
// bounds. A zero bound disables that dimension's check.
type ImageMinSizeValidator struct {
	MinWidth  int
	MinHeight int
}

func (v *ImageMinSizeValidator) Validate(f *File) error {
	if v.MinWidth <= 0 && v.MinHeight <= 0 {
		return nil
	}

	cfg, err := decodeImageConfig(f)
	if err != nil {
		return err
	}

	if (v.MinWidth > 0 && cfg.Width < v.MinWidth) || (v.MinHeight > 0 && cfg.Height < v.MinHeight) {
		return &ValidationError{
			Code: "min_size",
			Message: fmt.Sprintf(
				"Ensure this image size is equal or greater than %dpx x %dpx. Your image size is %dpx x %dpx.",
				v.MinWidth, v.MinHeight, cfg.Width, cfg.Height,
			),
			Params: map[string]any{
				"min_width":  v.MinWidth,
				"min_height": v.MinHeight,
				"width":      cfg.Width,
				"height":     cfg.Height,
			},
		}
	}
	return nil
}

// ImageMaxSizeValidator rejects images wider or taller than the given
// bounds. A zero bound disables that dimension's check.
type ImageMaxSizeValidator struct {
	MaxWidth  int
	MaxHeight int
}

func (v *ImageMaxSizeValidator) Validate(f *File) error {
	if v.MaxWidth <= 0 && v.MaxHeight <= 0 {
		return nil
	}

	cfg, err := decodeImageConfig(f)
	if err != nil {
		return err
	}

	if (v.MaxWidth > 0 && cfg.Width > v.MaxWidth) || (v.MaxHeight > 0 && cfg.Height > v.MaxHeight) {
		return &ValidationError{
			Code: "max_size",
			Message: fmt.Sprintf(
				"Ensure this image size is not greater than %dpx x %dpx. Your image size is %dpx x %dpx.",
				v.MaxWidth, v.MaxHeight, cfg.Width, cfg.Height,
			),
			Params: map[string]any{
				"max_width":  v.MaxWidth,
				"max_height": v.MaxHeight,
				"width":      cfg.Width,
				"height":     cfg.Height,
			},
		}
	}
	return nil
}

// IconRules builds the validator chain for hashtag icon uploads
func IconRules(minSize, maxSize int64, extensions []string, minWidth, minHeight, maxWidth, maxHeight int) []Validator {
	return []Validator{
		&FileMinSizeValidator{MinSize: minSize},
		&FileMaxSizeValidator{MaxSize: maxSize},
		&FileExtensionValidator{Extensions: extensions},
		&FileKindValidator{Kinds: []FileKind{FileKindImage}},
		&ImageMinSizeValidator{MinWidth: minWidth, MinHeight: minHeight},
		&ImageMaxSizeValidator{MaxWidth: maxWidth, MaxHeight: maxHeight},
	}
}
