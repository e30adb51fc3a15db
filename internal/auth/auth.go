// Package auth resolves the admin bearer token and inspects it for display.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalando/go-keyring"
)

// Service is the OS keyring service name. Tokens are stored per backend base URL.
const Service = "sportadmin"

var ErrNoToken = errors.New("no token stored")

type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceNone    Source = "none"
)

func account(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Get reads the stored token for baseURL.
func Get(baseURL string) (string, error) {
	tok, err := keyring.Get(Service, account(baseURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("keyring: %w", err)
	}
	return tok, nil
}

func Set(baseURL, token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return errors.New("empty token")
	}
	if err := keyring.Set(Service, account(baseURL), token); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	return nil
}

// Delete removes the stored token. Removing a token that is not there is not an error.
func Delete(baseURL string) error {
	err := keyring.Delete(Service, account(baseURL))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring: %w", err)
	}
	return nil
}

// Resolve picks the token: flag, then environment, then keyring. A keyring that is unavailable
// is treated like an empty one.
func Resolve(flagToken, envToken, baseURL string) (string, Source) {
	if t := strings.TrimSpace(flagToken); t != "" {
		return t, SourceFlag
	}
	if t := strings.TrimSpace(envToken); t != "" {
		return t, SourceEnv
	}
	if t, err := Get(baseURL); err == nil && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t), SourceKeyring
	}
	return "", SourceNone
}

// Info is what can be read from a token without verifying it.
type Info struct {
	JWT       bool      `json:"jwt"`
	Subject   string    `json:"subject,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Expired   bool      `json:"expired"`
}

// Inspect decodes token claims without checking the signature; the backend is the only
// verifier. Opaque (non-JWT) tokens yield Info{JWT: false} and no error.
func Inspect(token string, now time.Time) Info {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Info{}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Info{}
	}
	info := Info{JWT: true}
	info.Subject, _ = claims.GetSubject()
	info.Issuer, _ = claims.GetIssuer()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.UTC()
		info.Expired = !now.Before(exp.Time)
	}
	return info
}
