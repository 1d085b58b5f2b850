package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_WrapsCause(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewLLMServiceError(cause)

	assert.Equal(t, ErrLLMServiceError, err.Code)
	assert.Equal(t, MsgGenerationFailed, err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quota exceeded")

	var target *DomainError
	require.True(t, errors.As(error(err), &target))
	assert.Equal(t, ErrLLMServiceError, target.Code)
}

func TestDomainError_MarshalJSONHidesCause(t *testing.T) {
	b, err := json.Marshal(NewInvalidImageError(errors.New("bad png header")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"INVALID_IMAGE","message":"Invalid image data"}`, string(b))
}

func TestGenerationRequest_HasInput(t *testing.T) {
	assert.False(t, GenerationRequest{}.HasInput())
	assert.True(t, GenerationRequest{Text: "why is the sky blue"}.HasInput())
	assert.True(t, GenerationRequest{Image: &Image{Data: []byte{1}}}.HasInput())
}
