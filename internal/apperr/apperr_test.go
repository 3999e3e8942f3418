package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var errThingMissing = New(ErrNotFound, "thing not found")

func TestErrorMatchesKindAndSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", errThingMissing)

	assert.ErrorIs(t, err, errThingMissing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "thing not found", errThingMissing.Error())
}

func TestTransientKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Transient("find ride", cause)

	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "find ride: connection refused", err.Error())
	assert.NoError(t, Transient("noop", nil))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB("op", nil, errThingMissing))
	assert.ErrorIs(t, FromDB("op", gorm.ErrRecordNotFound, errThingMissing), errThingMissing)
	assert.ErrorIs(t, FromDB("op", gorm.ErrRecordNotFound, nil), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, FromDB("op", gorm.ErrDuplicatedKey, nil), ErrConflict)
	assert.ErrorIs(t, FromDB("op", errors.New("boom"), nil), ErrTransient)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		Invalid("bad %s", "field"):          http.StatusBadRequest,
		New(ErrPermissionDenied, "no"):      http.StatusForbidden,
		errThingMissing:                     http.StatusNotFound,
		New(ErrConflict, "taken"):           http.StatusConflict,
		Transient("op", errors.New("down")): http.StatusServiceUnavailable,
		context.DeadlineExceeded:            http.StatusServiceUnavailable,
		errors.New("surprise"):              http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}
