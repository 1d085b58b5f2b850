package dto

import "storybuddy/internal/domain"

// TextRequest is the body of /StoryTeller and /QuizBot
// @Description Request body carrying free text
type TextRequest struct {
	Text string `json:"text" example:"A little turtle who wanted to fly"`
}

// ExplainRequest is the body of /LearnBot. At least one field must be set.
// @Description Request body for an explanation of text, an image or both
type ExplainRequest struct {
	Text  string `json:"text,omitempty" example:"Why is the sky blue?"`
	Image string `json:"image,omitempty" example:"data:image/png;base64,iVBORw0KGgo..."`
}

// TextResponse wraps free model text
// @Description Generated text
type TextResponse struct {
	Response string `json:"response"`
}

// QuizResponse wraps the parsed quiz
// @Description Parsed multiple-choice quiz
type QuizResponse struct {
	Response domain.QuizDocument `json:"response"`
}

// HealthResponse reports liveness and the state of the response cache
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Cache  string `json:"cache" example:"disabled"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
