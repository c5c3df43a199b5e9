package peers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"onboarding/internal/registration/ports"
	dErrors "onboarding/pkg/domain-errors"
)

const (
	scimUsersPath  = "/scim/v2/Users"
	oauthTokenPath = "/oauth/token"
	scimUserSchema = "urn:ietf:params:scim:schemas:core:2.0:User"
)

// IdentityProvider talks to a SCIM 2.0 user store with an OAuth token
// endpoint.
type IdentityProvider struct {
	client        *Client
	clientID      string
	clientSecret  string
	lookupTimeout time.Duration
}

func NewIdentityProvider(client *Client, clientID, clientSecret string, lookupTimeout time.Duration) *IdentityProvider {
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	return &IdentityProvider{
		client:        client,
		clientID:      clientID,
		clientSecret:  clientSecret,
		lookupTimeout: lookupTimeout,
	}
}

type scimEmail struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

type scimPhone struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

type scimUser struct {
	Schemas      []string    `json:"schemas"`
	ExternalID   string      `json:"externalId"`
	UserName     string      `json:"userName"`
	Password     string      `json:"password"`
	Active       bool        `json:"active"`
	Emails       []scimEmail `json:"emails"`
	PhoneNumbers []scimPhone `json:"phoneNumbers"`
}

func (p *IdentityProvider) CreateUser(ctx context.Context, profile ports.Profile) error {
	_, err := p.client.Do(ctx, http.MethodPost, scimUsersPath, nil, scimUser{
		Schemas:      []string{scimUserSchema},
		ExternalID:   profile.SubjectID,
		UserName:     profile.Email,
		Password:     profile.Password,
		Active:       true,
		Emails:       []scimEmail{{Value: profile.Email, Primary: true}},
		PhoneNumbers: []scimPhone{{Value: "+" + profile.CountryCode + profile.MobileNo, Type: "mobile"}},
	})
	return err
}

// SearchByIdentifier reports whether a user with userName name exists.
func (p *IdentityProvider) SearchByIdentifier(ctx context.Context, name string) (bool, error) {
	id, err := p.lookup(ctx, name)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return id != "", nil
}

// DeleteUser removes the user whose userName is identifier.
func (p *IdentityProvider) DeleteUser(ctx context.Context, identifier string) error {
	id, err := p.lookup(ctx, identifier)
	if err != nil {
		return err
	}
	_, err = p.client.Do(ctx, http.MethodDelete, scimUsersPath+"/"+url.PathEscape(id), nil, nil)
	return err
}

// lookup returns the SCIM id of the user named name or a CodeNotFound error.
func (p *IdentityProvider) lookup(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("filter", fmt.Sprintf("userName eq %q", name))
	query.Set("count", "1")
	resp, err := p.client.Do(ctx, http.MethodGet, scimUsersPath, query, nil)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "identity lookup timed out")
		}
		return "", err
	}
	id := resp.Get("Resources.0.id").String()
	if resp.Get("totalResults").Int() == 0 || id == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "no user with that identifier")
	}
	return id, nil
}

// IssueToken runs a resource-owner password grant. Bad credentials are coded
// CodeUnauthorized.
func (p *IdentityProvider) IssueToken(ctx context.Context, creds ports.Credentials) (*ports.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("scope", "openid")
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	basic := base64.StdEncoding.EncodeToString([]byte(p.clientID + ":" + p.clientSecret))
	resp, err := p.client.PostForm(ctx, oauthTokenPath, form, http.Header{"Authorization": {"Basic " + basic}})
	if err != nil {
		if resp != nil && (resp.Status == http.StatusBadRequest || resp.Status == http.StatusUnauthorized) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "incorrect username or password")
		}
		return nil, err
	}
	return &ports.Token{
		AccessToken:  resp.Get("access_token").String(),
		RefreshToken: resp.Get("refresh_token").String(),
		ExpiresIn:    resp.Get("expires_in").Int(),
		TokenType:    resp.Get("token_type").String(),
	}, nil
}
