package img

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"storybuddy/internal/domain"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned for payloads that are not decodable base64 images.
var ErrInvalidImage = errors.New("invalid image payload")

const jpegQuality = 85

// Limits bound what DecodeBase64Image accepts and sends on.
type Limits struct {
	// MaxWidth downscales wider images; 0 disables resizing.
	MaxWidth int
	// MaxPixels rejects images whose width*height exceeds it before decoding; 0 disables the check.
	MaxPixels int
}

// Formats the language models accept as-is. Everything else is re-encoded to PNG.
var passThroughFormats = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

// DecodeBase64Image decodes an optionally data-URI prefixed base64 image, checks that it is
// a real image within limits and returns it in a format the models accept.
func DecodeBase64Image(payload string, limits Limits) (*domain.Image, error) {
	data, err := decodeBase64(stripDataURI(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty dimensions %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}
	if limits.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(limits.MaxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, limits.MaxPixels)
	}

	im, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if limits.MaxWidth > 0 && im.Bounds().Dx() > limits.MaxWidth {
		resized := imaging.Resize(im, limits.MaxWidth, 0, imaging.Lanczos)
		return encode(resized, imaging.JPEG, "image/jpeg")
	}

	if mimeType, ok := passThroughFormats[format]; ok {
		return &domain.Image{Data: data, MIMEType: mimeType}, nil
	}
	return encode(im, imaging.PNG, "image/png")
}

func encode(im image.Image, format imaging.Format, mimeType string) (*domain.Image, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, im, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("re-encode image: %w", err)
	}
	return &domain.Image{Data: buf.Bytes(), MIMEType: mimeType}, nil
}

// stripDataURI drops a "data:<mime>;base64," header if present.
func stripDataURI(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.IndexByte(s, ','); idx > 0 {
		return s[idx+1:]
	}
	return s
}

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	if b2, err2 := base64.RawStdEncoding.DecodeString(s); err2 == nil {
		return b2, nil
	}
	if b3, err3 := base64.URLEncoding.DecodeString(s); err3 == nil {
		return b3, nil
	}
	return nil, err
}
