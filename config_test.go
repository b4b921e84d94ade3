package flexauth

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := defaultConfig()
	cfg.Token.PrivateKey = []byte("test-secret")
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults with key",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty credential field",
			mutate:  func(c *Config) { c.Credential.Field = " " },
			wantErr: true,
		},
		{
			name:    "credential field with whitespace",
			mutate:  func(c *Config) { c.Credential.Field = "X Auth" },
			wantErr: true,
		},
		{
			name:    "prefix with whitespace",
			mutate:  func(c *Config) { c.Credential.HeaderPrefix = "JWT " },
			wantErr: true,
		},
		{
			name:   "empty prefix is legal",
			mutate: func(c *Config) { c.Credential.HeaderPrefix = "" },
		},
		{
			name:    "unknown signing method",
			mutate:  func(c *Config) { c.Token.SigningMethod = "rs256" },
			wantErr: true,
		},
		{
			name:    "missing private key",
			mutate:  func(c *Config) { c.Token.PrivateKey = nil },
			wantErr: true,
		},
		{
			name:    "ed25519 without public key",
			mutate:  func(c *Config) { c.Token.SigningMethod = "ed25519" },
			wantErr: true,
		},
		{
			name:    "non-positive expiration",
			mutate:  func(c *Config) { c.Token.ExpirationDelta = 0 },
			wantErr: true,
		},
		{
			name:    "leeway too large",
			mutate:  func(c *Config) { c.Token.Leeway = 3 * time.Minute },
			wantErr: true,
		},
		{
			name: "refresh without limit",
			mutate: func(c *Config) {
				c.Token.AllowRefresh = true
				c.Token.RefreshLimit = 0
			},
			wantErr: true,
		},
		{
			name:    "empty username claim",
			mutate:  func(c *Config) { c.Token.UsernameClaim = "" },
			wantErr: true,
		},
		{
			name:    "username claim collides with reserved claim",
			mutate:  func(c *Config) { c.Token.UsernameClaim = "user_id" },
			wantErr: true,
		},
		{
			name:    "session ttl missing",
			mutate:  func(c *Config) { c.Session.TTL = 0 },
			wantErr: true,
		},
		{
			name: "session disabled skips session checks",
			mutate: func(c *Config) {
				c.Session.CookieName = ""
				c.Session.TTL = 0
			},
		},
		{
			name:    "session csrf names missing",
			mutate:  func(c *Config) { c.Session.CSRFHeader = "" },
			wantErr: true,
		},
		{
			name: "audit enabled without buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCloneConfigIsolatesKeys(t *testing.T) {
	cfg := validConfig()
	clone := cloneConfig(cfg)

	clone.Token.PrivateKey[0] = 'X'
	if cfg.Token.PrivateKey[0] == 'X' {
		t.Fatal("cloned key must not alias the original")
	}
}

func TestDefaultConfigShape(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Credential.Field != "Authorization" || cfg.Credential.HeaderPrefix != "JWT" {
		t.Fatalf("credential defaults = %+v", cfg.Credential)
	}
	if cfg.Token.SigningMethod != "hs256" || cfg.Token.ExpirationDelta != 5*time.Minute {
		t.Fatalf("token defaults = %+v", cfg.Token)
	}
	if cfg.Token.AllowRefresh {
		t.Fatal("refresh must default off")
	}
	if cfg.Session.CookieName != "sessionid" || !cfg.Session.SlidingExpiration {
		t.Fatalf("session defaults = %+v", cfg.Session)
	}
}
