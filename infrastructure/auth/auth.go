// Package auth acquires authorized HTTP clients for the YouTube Data API from a client secret file
// and a stored OAuth2 token.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

// ErrAuthorizationRequired is matched by errors.Is when no usable token is stored.
var ErrAuthorizationRequired = errors.New("authorization required")

// AuthorizationRequiredError carries the consent URL the user must visit.
type AuthorizationRequiredError struct {
	URL string
}

func (e *AuthorizationRequiredError) Error() string {
	return fmt.Sprintf("%v: visit %s", ErrAuthorizationRequired, e.URL)
}

func (e *AuthorizationRequiredError) Is(target error) bool {
	return target == ErrAuthorizationRequired
}

// LoadConfig reads an OAuth2 client secret file as downloaded from the Google console.
// redirectURL overrides the first redirect URI of the file when set.
func LoadConfig(clientSecretFile, redirectURL string) (*oauth2.Config, error) {
	b, err := os.ReadFile(clientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, youtube.YoutubeReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file: %w", err)
	}
	if redirectURL != "" {
		cfg.RedirectURL = redirectURL
	}
	return cfg, nil
}

// ConsentURL returns the URL where the user grants offline read access.
func ConsentURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func LoadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", path, err)
	}
	return tok, nil
}

// SaveToken writes tok to path, readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	b, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", path, err)
	}
	return nil
}

// Authenticate returns a client authorized with the token stored in tokenFile. Refreshed tokens are
// written back to tokenFile. Without a stored token it fails with *AuthorizationRequiredError.
func Authenticate(ctx context.Context, clientSecretFile, tokenFile, redirectURL string) (*http.Client, error) {
	cfg, err := LoadConfig(clientSecretFile, redirectURL)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(tokenFile)
	if errors.Is(err, os.ErrNotExist) || (err == nil && tok.RefreshToken == "" && !tok.Valid()) {
		return nil, &AuthorizationRequiredError{URL: ConsentURL(cfg, "easy-tube")}
	}
	if err != nil {
		return nil, err
	}
	return Client(ctx, cfg, tok, tokenFile), nil
}

// Client returns an HTTP client for tok that saves every refreshed token to tokenFile.
func Client(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, tokenFile string) *http.Client {
	src := &savingTokenSource{base: cfg.TokenSource(ctx, tok), path: tokenFile, last: tok.AccessToken}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src))
}

// Exchange trades an authorization code for a token and stores it in tokenFile.
func Exchange(ctx context.Context, cfg *oauth2.Config, code, tokenFile string) (*oauth2.Token, error) {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := SaveToken(tokenFile, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

type savingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := SaveToken(s.path, tok); err != nil {
			logger.GetLogger().WithError(err).Warn("Failed to persist refreshed token")
		} else {
			logger.GetLogger().WithField("expiry", tok.Expiry).Debug("Persisted refreshed token")
		}
	}
	return tok, nil
}
