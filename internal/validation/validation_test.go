package validation

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string  `json:"email" validate:"required,email"`
	Name  string  `json:"screen_name" validate:"required,min=3"`
	Lat   float64 `json:"latitude" validate:"latitude"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Email: "a@b.co", Name: "rider", Lat: 41.1}))

	err := Struct(sample{Email: "a@b.co", Name: "ab"})
	require.ErrorIs(t, err, apperr.ErrInvalid)
	assert.Equal(t, "screen_name must be at least 3 characters", err.Error())

	err = Struct(sample{Name: "rider"})
	assert.EqualError(t, err, "email is required")

	err = Struct(sample{Email: "a@b.co", Name: "rider", Lat: 120})
	assert.EqualError(t, err, "latitude must be a valid latitude")
}
