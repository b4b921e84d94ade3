package flexauth

import (
	"errors"
	"strings"
	"time"
)

// Config is the process-wide configuration for the authentication backend.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable. [Builder.Build] clones and validates the config
// once; request handling never reads mutable global state.
type Config struct {
	Credential CredentialConfig
	Token      TokenConfig
	Session    SessionConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
CREDENTIAL CONFIG
====================================
*/

// CredentialConfig controls where the credential locator looks for a token
// and how the raw value is interpreted.
type CredentialConfig struct {
	// Field is the body field / header name carrying the credential.
	Field string
	// HeaderPrefix is the auth scheme keyword ("JWT", "Bearer"). It may be
	// empty, in which case the raw value is the bare token.
	HeaderPrefix string
	// CookieName, when set, is consulted after body and header come up empty.
	CookieName string
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls token issuance and verification.
type TokenConfig struct {
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte

	ExpirationDelta time.Duration
	Leeway          time.Duration

	AllowRefresh bool
	RefreshLimit time.Duration

	Audience string
	Issuer   string

	// UsernameClaim is the claim name that carries the resolved username.
	UsernameClaim string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the Redis-backed session authenticator.
type SessionConfig struct {
	RedisPrefix       string
	CookieName        string
	TTL               time.Duration
	SlidingExpiration bool

	CSRFCookieName string
	CSRFHeader     string
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counter registry.
type MetricsConfig struct {
	Enabled bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Credential: CredentialConfig{
			Field:        "Authorization",
			HeaderPrefix: "JWT",
		},
		Token: TokenConfig{
			SigningMethod:   "hs256",
			ExpirationDelta: 5 * time.Minute,
			AllowRefresh:    false,
			RefreshLimit:    7 * 24 * time.Hour,
			UsernameClaim:   "username",
		},
		Session: SessionConfig{
			RedisPrefix:       "fa",
			CookieName:        "sessionid",
			TTL:               14 * 24 * time.Hour,
			SlidingExpiration: true,
			CSRFCookieName:    "csrftoken",
			CSRFHeader:        "X-CSRF-Token",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// DefaultConfig returns the baseline configuration used by [New].
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for internal consistency. It is called
// once by [Builder.Build]; callers constructing a Config by hand can use it
// directly.
func (c *Config) Validate() error {
	// Credential
	if strings.TrimSpace(c.Credential.Field) == "" {
		return errors.New("Credential Field must not be empty")
	}
	if strings.ContainsAny(c.Credential.Field, " \t") {
		return errors.New("Credential Field must not contain whitespace")
	}
	if strings.ContainsAny(c.Credential.HeaderPrefix, " \t") {
		return errors.New("Credential HeaderPrefix must not contain whitespace")
	}

	// Token
	if c.Token.SigningMethod != "hs256" && c.Token.SigningMethod != "ed25519" {
		return errors.New("unsupported token signing method")
	}
	if len(c.Token.PrivateKey) == 0 {
		return errors.New("token signing requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}
	if c.Token.ExpirationDelta <= 0 {
		return errors.New("Token ExpirationDelta must be > 0")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}
	if c.Token.AllowRefresh && c.Token.RefreshLimit <= 0 {
		return errors.New("Token RefreshLimit must be > 0 when refresh is allowed")
	}
	if strings.TrimSpace(c.Token.UsernameClaim) == "" {
		return errors.New("Token UsernameClaim must not be empty")
	}
	switch c.Token.UsernameClaim {
	case "user_id", "is_admin", "exp", "orig_iat", "aud", "iss":
		return errors.New("Token UsernameClaim collides with a reserved claim")
	}

	// Session
	if c.Session.CookieName != "" {
		if c.Session.TTL <= 0 {
			return errors.New("Session TTL must be > 0")
		}
		if c.Session.RedisPrefix == "" {
			return errors.New("Session RedisPrefix must not be empty")
		}
		if c.Session.CSRFCookieName == "" || c.Session.CSRFHeader == "" {
			return errors.New("Session CSRF cookie and header names must not be empty")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
