package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title  string  `json:"title" validate:"required,max=5"`
	Score  int     `json:"score" validate:"required,min=1,max=5"`
	Status *string `json:"status,omitempty" validate:"omitempty,is-submission-status"`
}

func TestValidator_UsesJSONNamesAndCustomRules(t *testing.T) {
	v := New()

	status := "approved"
	assert.NoError(t, v.Validate(&sample{Title: "Dune", Score: 3, Status: &status}))

	bad := "archived"
	err := v.Validate(&sample{Title: "Too long", Score: 9, Status: &bad})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be at most 5", vErr.Errors["title"])
	assert.Equal(t, "Must be at most 5", vErr.Errors["score"])
	assert.Equal(t, "Must be one of: pending, approved, rejected", vErr.Errors["status"])
}

func TestValidator_Required(t *testing.T) {
	err := New().Validate(&sample{})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Equal(t, "This field is required", vErr.Errors["title"])
	assert.Equal(t, "This field is required", vErr.Errors["score"])
}
