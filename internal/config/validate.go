package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

const minSecretLength = 32

// Validate checks business rules on a loaded configuration. Load calls it
// automatically. A missing JWT secret is only accepted in demo mode, where
// EnsureSecrets fills it in.
func (c *Config) Validate() error {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	switch c.AI.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("ai.provider must be %q or %q (got %q)", ProviderOllama, ProviderOpenAI, c.AI.Provider)
	}
	if c.AI.Provider == ProviderOpenAI && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required for the %s provider", ProviderOpenAI)
	}
	if c.AI.RequestsPerMinute <= 0 {
		return fmt.Errorf("ai.requests_per_minute must be > 0 (got %d)", c.AI.RequestsPerMinute)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}
	if c.Auth.InitialCoins < 0 {
		return fmt.Errorf("auth.initial_coins must be >= 0 (got %d)", c.Auth.InitialCoins)
	}
	if !(c.Auth.DemoMode && c.Auth.JWTSecret == "") && len(c.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters (got %d)", minSecretLength, len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	return nil
}

// EnsureSecrets replaces missing secrets with ephemeral random values and
// returns the names of the ones it generated. Generated secrets do not
// survive a restart.
func (c *Config) EnsureSecrets() ([]string, error) {
	var generated []string
	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"auth.jwt_secret", &c.Auth.JWTSecret},
		{"server.admin_secret", &c.Server.AdminSecret},
	} {
		if *s.dst != "" {
			continue
		}
		secret, err := randomSecret()
		if err != nil {
			return generated, fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = secret
		generated = append(generated, s.name)
	}
	return generated, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate fallback secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
