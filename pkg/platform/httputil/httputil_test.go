package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onboarding/pkg/domain-errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("dependency outage hides upstream detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeDependencyUnavailable, "kyc returned 502 from 10.0.0.4"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decode(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, TryAgainLater, body.Message)
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("nil pointer somewhere"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, TryAgainLater, decode(t, w).Message)
	})

	t.Run("already registered echoes message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeAlreadyRegistered, "email is already registered"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "email is already registered", decode(t, w).Message)
	})

	t.Run("rejected dependency passes message through", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeDependencyRejected, "disposable email addresses are not allowed"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "disposable email addresses are not allowed", decode(t, w).Message)
	})
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, http.StatusCreated, "created", map[string]string{"subjectId": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "created", body.Message)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSON(r, &v)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	err = DecodeJSON(r, &v)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.io"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "a@b.io", v.Email)
}
