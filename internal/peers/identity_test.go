package peers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
)

func TestIdentitySearch(t *testing.T) {
	var filter string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("filter")
		if filter == `userName eq "ada@example.com"` {
			respond(http.StatusOK, `{"totalResults":1,"Resources":[{"id":"scim-1"}]}`)(w, r)
			return
		}
		respond(http.StatusOK, `{"totalResults":0,"Resources":[]}`)(w, r)
	})
	idp := NewIdentityProvider(c, "client", "secret", time.Second)

	found, err := idp.SearchByIdentifier(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = idp.SearchByIdentifier(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, `userName eq "bob@example.com"`, filter)
}

func TestIdentitySearchTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	idp := NewIdentityProvider(c, "client", "secret", 20*time.Millisecond)

	_, err := idp.SearchByIdentifier(context.Background(), "ada@example.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestIdentityCreateUser(t *testing.T) {
	var got scimUser
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, scimUsersPath, r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		respond(http.StatusCreated, `{"id":"scim-1"}`)(w, r)
	})
	idp := NewIdentityProvider(c, "client", "secret", time.Second)

	err := idp.CreateUser(context.Background(), ports.Profile{
		SubjectID:   "subject-1",
		Email:       "ada@example.com",
		Password:    "pw",
		CountryCode: "44",
		MobileNo:    "7700900123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.UserName)
	assert.Equal(t, "subject-1", got.ExternalID)
	assert.Equal(t, "+447700900123", got.PhoneNumbers[0].Value)
}

func TestIdentityCreateUserConflict(t *testing.T) {
	c := newTestClient(t, respond(http.StatusConflict, `{"message":"exists"}`))
	idp := NewIdentityProvider(c, "client", "secret", time.Second)

	err := idp.CreateUser(context.Background(), ports.Profile{Email: "ada@example.com"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestIdentityDeleteUser(t *testing.T) {
	var deleted string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respond(http.StatusOK, `{"totalResults":1,"Resources":[{"id":"scim-7"}]}`)(w, r)
		case http.MethodDelete:
			deleted = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	})
	idp := NewIdentityProvider(c, "client", "secret", time.Second)

	require.NoError(t, idp.DeleteUser(context.Background(), "ada@example.com"))
	assert.Equal(t, scimUsersPath+"/scim-7", deleted)
}

func TestIdentityDeleteMissingUser(t *testing.T) {
	c := newTestClient(t, respond(http.StatusOK, `{"totalResults":0}`))
	idp := NewIdentityProvider(c, "client", "secret", time.Second)

	err := idp.DeleteUser(context.Background(), "ada@example.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestIdentityIssueToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		if r.PostForm.Get("password") != "right" {
			respond(http.StatusUnauthorized, `{"error":"invalid_grant"}`)(w, r)
			return
		}
		respond(http.StatusOK, `{"access_token":"at","refresh_token":"rt","expires_in":300,"token_type":"Bearer"}`)(w, r)
	})
	idp := NewIdentityProvider(c, "client", "secret", time.Second)

	token, err := idp.IssueToken(context.Background(), ports.Credentials{Username: "ada@example.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, &ports.Token{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 300, TokenType: "Bearer"}, token)

	_, err = idp.IssueToken(context.Background(), ports.Credentials{Username: "ada@example.com", Password: "wrong"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
