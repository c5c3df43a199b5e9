// Package testutil provides common helpers for handler and integration tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/pkg/platform/httputil"
)

// NewJSONRequest creates a request with a raw JSON body. An empty body sends
// no payload and no Content-Type.
func NewJSONRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeEnvelope unmarshals the response envelope, failing the test on a
// body that is not one.
func DecodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "response is not an envelope: %s", rr.Body.String())
	return resp
}

// AssertFailure asserts a failed envelope with the given status and message.
func AssertFailure(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, "unexpected status code")
	resp := DecodeEnvelope(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, message, resp.Message)
}
