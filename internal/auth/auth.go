// Package auth exchanges an identifier and secret for an opaque bearer
// token. Token contents are never inspected.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

var (
	ErrNoEndpoint = errors.New("no token endpoint configured")
	ErrRejected   = errors.New("credentials rejected")
)

// Exchanger turns credentials into a bearer token.
type Exchanger interface {
	Exchange(ctx context.Context, id, secret string) (string, error)
}

// OAuthExchanger uses the OAuth2 resource owner password grant.
type OAuthExchanger struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

func (e *OAuthExchanger) Exchange(ctx context.Context, id, secret string) (string, error) {
	if e.TokenURL == "" {
		return "", ErrNoEndpoint
	}
	conf := &oauth2.Config{
		ClientID:     e.ClientID,
		ClientSecret: e.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  e.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	if e.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.HTTPClient)
	}

	tok, err := conf.PasswordCredentialsToken(ctx, id, secret)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return "", fmt.Errorf("%w: %s", ErrRejected, re.Response.Status)
		}
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token exchange: %w: empty token", ErrRejected)
	}
	return tok.AccessToken, nil
}

type savedToken struct {
	AccessToken string `json:"access_token"`
}

// SaveToken stores a bearer token readable only by the owner.
func SaveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	data, err := json.Marshal(savedToken{AccessToken: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// LoadToken reads a token written by SaveToken.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var t savedToken
	if err := json.Unmarshal(data, &t); err != nil {
		return "", fmt.Errorf("decode token %s: %w", path, err)
	}
	return t.AccessToken, nil
}
