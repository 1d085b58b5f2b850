package validation

import (
	"storybuddy/internal/domain"
	"storybuddy/internal/dto"
	"storybuddy/internal/img"
)

// Validator checks request bodies and turns raw payloads into domain inputs
type Validator struct {
	imageLimits img.Limits
}

// NewValidator creates a new validator instance
func NewValidator(imageLimits img.Limits) *Validator {
	return &Validator{imageLimits: imageLimits}
}

// ValidateExplainRequest builds a GenerationRequest from a /LearnBot body.
// An empty body is INVALID_INPUT and an undecodable image is INVALID_IMAGE.
func (v *Validator) ValidateExplainRequest(req dto.ExplainRequest) (domain.GenerationRequest, error) {
	if req.Text == "" && req.Image == "" {
		return domain.GenerationRequest{}, domain.NewInvalidInputError(domain.MsgNoValidInput)
	}

	genReq := domain.GenerationRequest{Text: req.Text}
	if req.Image != "" {
		image, err := img.DecodeBase64Image(req.Image, v.imageLimits)
		if err != nil {
			return domain.GenerationRequest{}, domain.NewInvalidImageError(err)
		}
		genReq.Image = image
	}
	return genReq, nil
}
