package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no token is stored for an account.
var ErrNoToken = errors.New("no Google OAuth token stored")

// TokenProvider is an interface for providing OAuth tokens for Google APIs.
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// TokenSaver is implemented by providers that can persist refreshed tokens.
type TokenSaver interface {
	SaveTokenForAccount(account string, tok *oauth2.Token) error
}

// FileTokenProvider stores one JSON token file per account in Dir.
type FileTokenProvider struct {
	Dir string
}

// NewFileTokenProvider returns a provider using the user cache directory,
// e.g. ~/.cache/workday.
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{Dir: filepath.Join(userCacheDir(), "workday")}
}

func (p *FileTokenProvider) tokenPath(account string) string {
	return filepath.Join(p.Dir, "google-"+account+".token")
}

// GetTokenForAccount reads the stored token for account.
func (p *FileTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.tokenPath(account))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for account %s", ErrNoToken, account)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, fmt.Errorf("%w for account %s", ErrNoToken, account)
	}
	return &tok, nil
}

// HasTokenForAccount checks if a token file exists for the specified account
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	if validateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(p.tokenPath(account))
	return err == nil
}

// SaveTokenForAccount writes tok for account with 0600 permissions.
func (p *FileTokenProvider) SaveTokenForAccount(account string, tok *oauth2.Token) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	if tok == nil {
		return errors.New("token is nil")
	}
	if err := os.MkdirAll(p.Dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(p.tokenPath(account), data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
