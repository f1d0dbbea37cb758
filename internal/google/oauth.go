package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Environment variables holding the OAuth client credentials.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
)

var accountNameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNameRE.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, hyphens and underscores are allowed", account)
	}
	return nil
}

// GetOAuthConfig returns the OAuth2 configuration for all Google services
// used by workday. Client credentials are read from GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET.
func GetOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://localhost",
		Scopes:       DefaultOAuthScopes,
	}
}

// GetAuthURL returns the URL the user opens to grant access.
func GetAuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades an authorization code for a token and stores it for
// account.
func ExchangeCode(ctx context.Context, conf *oauth2.Config, provider *FileTokenProvider, account, code string) error {
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return provider.SaveTokenForAccount(account, tok)
}

// DeviceLogin runs the OAuth device authorization flow. prompt is called
// with the verification URL and user code; the function then blocks until
// the user approves, ctx is cancelled or the code expires.
func DeviceLogin(ctx context.Context, conf *oauth2.Config, provider *FileTokenProvider, account string, prompt func(*oauth2.DeviceAuthResponse)) error {
	resp, err := conf.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		return fmt.Errorf("failed to start device authorization: %w", err)
	}
	prompt(resp)

	tok, err := conf.DeviceAccessToken(ctx, resp)
	if err != nil {
		return fmt.Errorf("failed to complete device authorization: %w", err)
	}
	return provider.SaveTokenForAccount(account, tok)
}

// GetHTTPClientForAccount returns an HTTP client authorized for account.
// Refreshed tokens are written back through provider when it can store them.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func GetHTTPClientForAccount(ctx context.Context, account string, provider TokenProvider) (*http.Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}
	tok, err := provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	var ts oauth2.TokenSource = GetOAuthConfig().TokenSource(ctx, tok)
	if saver, ok := provider.(TokenSaver); ok {
		ts = &savingTokenSource{base: ts, account: account, saver: saver, last: tok.AccessToken}
	}

	client := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts))

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}
	return client, nil
}

// GetAuthenticationErrorMessage explains how to authenticate account.
func GetAuthenticationErrorMessage(account string) string {
	return fmt.Sprintf("No valid Google OAuth token found for account %q. "+
		"Run 'workday auth --account %s' to authorize access.", account, account)
}

// savingTokenSource persists a token whenever the underlying source returns
// a new access token.
type savingTokenSource struct {
	base    oauth2.TokenSource
	account string
	saver   TokenSaver

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
		if err := s.saver.SaveTokenForAccount(s.account, tok); err != nil {
			return nil, fmt.Errorf("failed to store refreshed token: %w", err)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		return os.TempDir()
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
