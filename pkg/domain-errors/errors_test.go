package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeForbidden, "no access")
		assert.True(t, HasCode(err, CodeForbidden))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeNotFound, "event not found"))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("foreign error has internal code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, CodeDependency, "could not reach core")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDependency, CodeOf(err))
	assert.Contains(t, err.Error(), "dial tcp: refused")
}

func TestValidationFields(t *testing.T) {
	fields := FieldErrors{}
	assert.True(t, fields.Empty())
	fields.Add("name", "name must not be empty")
	fields.Add("name", "name is too long")
	fields.Add("description", "description must not be empty")

	err := Validation("event is invalid", fields)
	de, ok := As(err)
	require.True(t, ok)
	assert.Len(t, de.Fields["name"], 2)
	assert.Equal(t, "validation_error: event is invalid [description,name]", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:     http.StatusNotFound,
		CodeForbidden:    http.StatusForbidden,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeBadRequest:   http.StatusBadRequest,
		CodeValidation:   http.StatusUnprocessableEntity,
		CodeConflict:     http.StatusConflict,
		CodeDependency:   http.StatusInternalServerError,
		CodeTimeout:      http.StatusInternalServerError,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, HTTPStatus(code), string(code))
	}
}
