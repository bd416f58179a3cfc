package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
)

// tokenExpirySkew refreshes tokens slightly before their actual expiry so
// an in-flight request never carries a token that dies mid-request.
const tokenExpirySkew = 30 * time.Second

// defaultTokenLifetime applies when the remote omits expires_in
const defaultTokenLifetime = time.Hour

// Token is a cached access token with its absolute expiry
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the token can still be used at the given instant
func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.Add(tokenExpirySkew).Before(t.ExpiresAt)
}

// TokenStore caches issued tokens keyed by connector code. Implementations
// live in the cache package; the in-memory store suits a single instance,
// the Redis store shares tokens across instances.
type TokenStore interface {
	// Token returns the cached token for a code; the second return is
	// false when no token is cached.
	Token(ctx context.Context, code string) (Token, bool, error)

	// Save caches a token for a code
	Save(ctx context.Context, code string, token Token) error

	// Delete drops the cached token for a code
	Delete(ctx context.Context, code string) error
}

// GrantFunc requests a fresh token from the remote system
type GrantFunc func(ctx context.Context) (Token, error)

// TokenSource hands out valid access tokens for one connector, refreshing
// through its grant when the cached token is missing or expired. Concurrent
// refreshes for the same connector are serialized so the remote sees at
// most one grant request per expiry.
type TokenSource struct {
	code  string
	store TokenStore
	grant GrantFunc

	mu  sync.Mutex
	now func() time.Time
}

// NewTokenSource creates a token source backed by the given store and grant
func NewTokenSource(code string, store TokenStore, grant GrantFunc) *TokenSource {
	return &TokenSource{
		code:  code,
		store: store,
		grant: grant,
		now:   time.Now,
	}
}

// AccessToken returns a valid access token, requesting a new one when the
// cached token is absent or expired.
func (s *TokenSource) AccessToken(ctx context.Context) (string, error) {
	if tok, ok, err := s.store.Token(ctx, s.code); err == nil && ok && tok.Valid(s.now()) {
		return tok.AccessToken, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock
	if tok, ok, err := s.store.Token(ctx, s.code); err == nil && ok && tok.Valid(s.now()) {
		return tok.AccessToken, nil
	}

	tok, err := s.grant(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", connector.ErrAuthFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", connector.ErrAuthFailed)
	}

	// Caching is best effort, an unsaved token still authenticates this call
	_ = s.store.Save(ctx, s.code, tok)

	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next call requests a fresh one
func (s *TokenSource) Invalidate(ctx context.Context) error {
	return s.store.Delete(ctx, s.code)
}

// grantResponse is the OAuth2 token endpoint response shape
type grantResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ClientCredentialsGrant builds a GrantFunc that posts a client_credentials
// form to the connector's token endpoint. The token endpoint is unauthenticated
// and form-encoded, so it bypasses the JSON request path of APIClient.Do.
func ClientCredentialsGrant(client *APIClient, tokenPath string) GrantFunc {
	return func(ctx context.Context) (Token, error) {
		settings, err := client.Settings()
		if err != nil {
			return Token{}, err
		}
		if settings.ClientID == "" || settings.ClientSecret == "" {
			return Token{}, fmt.Errorf("%w: %s credentials", connector.ErrNotConfigured, client.Code())
		}

		form := url.Values{}
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", settings.ClientID)
		form.Set("client_secret", settings.ClientSecret)

		endpoint := client.Endpoint(settings.APIURL, tokenPath)
		reqCtx, cancel := context.WithTimeout(ctx, settings.Timeout())
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return Token{}, fmt.Errorf("%s: failed to create token request: %w", client.Code(), err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := client.httpClient.Do(req)
		if err != nil {
			return Token{}, fmt.Errorf("%w: %v", connector.ErrRequestFailed, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return Token{}, fmt.Errorf("%s: failed to read token response: %w", client.Code(), err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return Token{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		var grant grantResponse
		if err := json.Unmarshal(body, &grant); err != nil {
			return Token{}, fmt.Errorf("%w: %v", connector.ErrInvalidResponse, err)
		}
		if grant.AccessToken == "" {
			return Token{}, fmt.Errorf("%w: token endpoint returned no access_token", connector.ErrAuthFailed)
		}

		lifetime := defaultTokenLifetime
		if grant.ExpiresIn > 0 {
			lifetime = time.Duration(grant.ExpiresIn) * time.Second
		}

		return Token{
			AccessToken: grant.AccessToken,
			ExpiresAt:   time.Now().Add(lifetime),
		}, nil
	}
}
