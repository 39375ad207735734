package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewForm struct {
	Status string `json:"status" validate:"required,is-application-status"`
	Reason string `json:"reason" validate:"max=500"`
}

type channelForm struct {
	URL       string   `json:"channel_url" validate:"required,youtube-url"`
	Interests []string `json:"interests" validate:"dive,is-interest"`
}

func TestValidate_CustomTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&reviewForm{Status: "approved"}))

	err := v.Validate(&reviewForm{Status: "archived"})
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be one of: pending, approved, rejected", verr.Errors["status"])
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&channelForm{URL: "https://vimeo.com/x", Interests: []string{"channelManagement", "gaming"}})
	require.Error(t, err)
	verr := err.(*ValidationError)

	assert.Equal(t, "Please enter a valid YouTube URL", verr.Errors["channel_url"])
	assert.Equal(t, "Unknown interest", verr.Errors["interests[1]"])
	assert.Len(t, verr.Errors, 2)
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "Validation failed: field 'a': one; field 'b': two", err.Error())
}
