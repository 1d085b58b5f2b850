package domain

import "context"

// Image is a decoded, format-validated image ready to be sent to a model.
type Image struct {
	Data     []byte
	MIMEType string
}

// GenerationRequest is the input of the explanation flow.
// At least one of Text or Image must be set.
type GenerationRequest struct {
	Text  string
	Image *Image
}

// HasInput reports whether the request carries any text or image.
func (r GenerationRequest) HasInput() bool {
	return r.Text != "" || r.Image != nil
}

// LanguageModel is the external generative model: a prompt plus an optional image in, free text out.
type LanguageModel interface {
	Name() string
	Generate(ctx context.Context, prompt string, image *Image) (string, error)
}
