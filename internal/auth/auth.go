// Package auth resolves the optional bearer token sent to the triage API.
// Providers are tried in order; a missing token is not an error for callers
// that can run unauthenticated.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultTokenEnv is the environment variable read when none is configured.
const DefaultTokenEnv = "GHTRIAGE_TOKEN"

// ErrNoToken indicates that no provider produced a token.
var ErrNoToken = errors.New("no API token available")

// TokenProvider defines the interface for obtaining an API token.
type TokenProvider interface {
	GetToken() (string, error)
}

// GhCliProvider obtains the GitHub token of the GitHub CLI (`gh auth token`).
// Backends that gate on GitHub org membership accept it directly.
type GhCliProvider struct{}

// GetToken shells out to `gh auth token`.
func (g *GhCliProvider) GetToken() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}
	return token, nil
}

// EnvProvider reads the token from the first non-empty environment variable.
type EnvProvider struct {
	Vars []string
}

// GetToken returns the value of the first set variable in Vars.
func (e *EnvProvider) GetToken() (string, error) {
	for _, name := range e.Vars {
		if token := strings.TrimSpace(os.Getenv(name)); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("none of %s set", strings.Join(e.Vars, ", "))
}

// Chain tries each provider in order and returns the first token found.
type Chain []TokenProvider

// GetToken returns the first token found, or ErrNoToken wrapping every
// provider's failure.
func (c Chain) GetToken() (string, error) {
	var errs []error
	for _, p := range c {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("%w: %w", ErrNoToken, errors.Join(errs...))
}

// NewChain builds the provider chain: the environment variable envVar (or
// DefaultTokenEnv), then the GitHub CLI when useGh is set.
func NewChain(envVar string, useGh bool) Chain {
	if envVar == "" {
		envVar = DefaultTokenEnv
	}
	chain := Chain{&EnvProvider{Vars: []string{envVar}}}
	if useGh {
		chain = append(chain, &GhCliProvider{})
	}
	return chain
}
