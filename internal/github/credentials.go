package github

import (
	"errors"
	"os"
	"strings"
)

const (
	// PrimaryTokenEnvironmentVariable is the first environment variable consulted for a token.
	PrimaryTokenEnvironmentVariable = "GITHUB_TOKEN"
	// FallbackTokenEnvironmentVariable is consulted when the primary variable is empty.
	FallbackTokenEnvironmentVariable = "GH_TOKEN"
)

// CredentialProvider supplies the current access credential for API calls.
// Implementations return ErrNoCredential when no credential is available.
type CredentialProvider interface {
	Resolve() (string, error)
}

// StaticCredentialProvider returns a fixed token.
type StaticCredentialProvider struct {
	token string
}

// NewStaticCredentialProvider wraps a literal token in a provider.
func NewStaticCredentialProvider(token string) StaticCredentialProvider {
	return StaticCredentialProvider{token: strings.TrimSpace(token)}
}

// Resolve returns the configured token or ErrNoCredential when it is empty.
func (provider StaticCredentialProvider) Resolve() (string, error) {
	if provider.token == "" {
		return "", ErrNoCredential
	}
	return provider.token, nil
}

// EnvironmentCredentialProvider reads a token from a primary environment
// variable with an optional fallback variable.
type EnvironmentCredentialProvider struct {
	primaryVariable  string
	fallbackVariable string
}

// NewEnvironmentCredentialProvider constructs a provider over the named variables.
func NewEnvironmentCredentialProvider(primaryVariable string, fallbackVariable string) EnvironmentCredentialProvider {
	return EnvironmentCredentialProvider{
		primaryVariable:  primaryVariable,
		fallbackVariable: fallbackVariable,
	}
}

// Resolve returns the first non-empty variable value or ErrNoCredential.
func (provider EnvironmentCredentialProvider) Resolve() (string, error) {
	primary := strings.TrimSpace(os.Getenv(provider.primaryVariable))
	if primary != "" {
		return primary, nil
	}
	fallback := strings.TrimSpace(os.Getenv(provider.fallbackVariable))
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoCredential
}

// ChainCredentialProvider consults a sequence of providers and returns the
// first credential found.
type ChainCredentialProvider struct {
	providers []CredentialProvider
}

// NewChainCredentialProvider builds a chain over the given providers in order.
func NewChainCredentialProvider(providers ...CredentialProvider) ChainCredentialProvider {
	return ChainCredentialProvider{providers: providers}
}

// Resolve returns the first available credential. Errors other than
// ErrNoCredential abort the chain; an exhausted chain yields ErrNoCredential.
func (provider ChainCredentialProvider) Resolve() (string, error) {
	for _, candidate := range provider.providers {
		if candidate == nil {
			continue
		}
		token, resolveErr := candidate.Resolve()
		if resolveErr == nil && token != "" {
			return token, nil
		}
		if resolveErr != nil && !errors.Is(resolveErr, ErrNoCredential) {
			return "", resolveErr
		}
	}
	return "", ErrNoCredential
}

// DefaultCredentialProvider resolves a flag token first, then the configured
// token, then the conventional environment variables.
func DefaultCredentialProvider(flagToken string, configuredToken string) CredentialProvider {
	return NewChainCredentialProvider(
		NewStaticCredentialProvider(flagToken),
		NewStaticCredentialProvider(configuredToken),
		NewEnvironmentCredentialProvider(PrimaryTokenEnvironmentVariable, FallbackTokenEnvironmentVariable),
	)
}
