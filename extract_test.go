package flexauth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	cfg := CredentialConfig{Field: "Authorization", HeaderPrefix: "JWT"}

	tests := []struct {
		name       string
		cfg        CredentialConfig
		req        Request
		wantToken  string
		wantSource Source
		wantErr    error
	}{
		{
			name:       "body two-token value",
			cfg:        cfg,
			req:        Request{Body: map[string]string{"Authorization": "JWT abc123"}},
			wantToken:  "abc123",
			wantSource: SourceBody,
		},
		{
			name:       "header fallback",
			cfg:        cfg,
			req:        Request{Meta: map[string]string{"HTTP_AUTHORIZATION": "JWT abc123"}},
			wantToken:  "abc123",
			wantSource: SourceHeader,
		},
		{
			name: "body takes precedence over header",
			cfg:  cfg,
			req: Request{
				Body: map[string]string{"Authorization": "JWT from-body"},
				Meta: map[string]string{"HTTP_AUTHORIZATION": "JWT from-header"},
			},
			wantToken:  "from-body",
			wantSource: SourceBody,
		},
		{
			name:       "prefix is case-insensitive",
			cfg:        cfg,
			req:        Request{Body: map[string]string{"Authorization": "jwt abc123"}},
			wantToken:  "abc123",
			wantSource: SourceBody,
		},
		{
			name: "nothing anywhere is absent",
			cfg:  cfg,
			req:  Request{},
		},
		{
			name: "prefix mismatch is absent not error",
			cfg:  cfg,
			req:  Request{Body: map[string]string{"Authorization": "Bearer abc123"}},
		},
		{
			name:       "cookie fallback returns literal value",
			cfg:        CredentialConfig{Field: "Authorization", HeaderPrefix: "JWT", CookieName: "jwt"},
			req:        Request{Cookies: map[string]string{"jwt": "cookie-token"}},
			wantToken:  "cookie-token",
			wantSource: SourceCookie,
		},
		{
			name: "cookie configured but unset is absent",
			cfg:  CredentialConfig{Field: "Authorization", HeaderPrefix: "JWT", CookieName: "jwt"},
			req:  Request{},
		},
		{
			name: "whitespace-only value falls through to cookie",
			cfg:  CredentialConfig{Field: "Authorization", HeaderPrefix: "JWT", CookieName: "jwt"},
			req: Request{
				Body:    map[string]string{"Authorization": "   "},
				Cookies: map[string]string{"jwt": "cookie-token"},
			},
			wantToken:  "cookie-token",
			wantSource: SourceCookie,
		},
		{
			name:    "prefix alone",
			cfg:     cfg,
			req:     Request{Body: map[string]string{"Authorization": "JWT"}},
			wantErr: ErrNoCredentials,
		},
		{
			name:    "embedded whitespace",
			cfg:     cfg,
			req:     Request{Body: map[string]string{"Authorization": "JWT abc 123"}},
			wantErr: ErrCredentialWhitespace,
		},
		{
			name:       "empty prefix bare token from header",
			cfg:        CredentialConfig{Field: "Authorization", HeaderPrefix: ""},
			req:        Request{Meta: map[string]string{"HTTP_AUTHORIZATION": "xyz789"}},
			wantToken:  "xyz789",
			wantSource: SourceHeader,
		},
		{
			name:    "empty prefix rejects two-word value",
			cfg:     CredentialConfig{Field: "Authorization", HeaderPrefix: ""},
			req:     Request{Body: map[string]string{"Authorization": "abc 123"}},
			wantErr: ErrCredentialWhitespace,
		},
		{
			name:    "non latin1 credential",
			cfg:     cfg,
			req:     Request{Body: map[string]string{"Authorization": "JWT ab€cd"}},
			wantErr: ErrCredentialEncoding,
		},
		{
			name:       "custom field name",
			cfg:        CredentialConfig{Field: "X-Auth", HeaderPrefix: "Bearer"},
			req:        Request{Meta: map[string]string{"HTTP_X_AUTH": "Bearer tok"}},
			wantToken:  "tok",
			wantSource: SourceHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.req, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if got.Token != tt.wantToken {
				t.Fatalf("token = %q, want %q", got.Token, tt.wantToken)
			}
			if got.Source != tt.wantSource {
				t.Fatalf("source = %v, want %v", got.Source, tt.wantSource)
			}
			if got.Present() != (tt.wantSource != SourceNone) {
				t.Fatalf("Present() = %v inconsistent with source %v", got.Present(), got.Source)
			}
		})
	}
}

func TestExtractErrorMessages(t *testing.T) {
	cfg := CredentialConfig{Field: "Authorization", HeaderPrefix: "JWT"}

	_, err := Extract(Request{Body: map[string]string{"Authorization": "JWT"}}, cfg)
	if err == nil || !strings.Contains(err.Error(), "no credentials provided") {
		t.Fatalf("want 'no credentials provided' message, got %v", err)
	}

	_, err = Extract(Request{Body: map[string]string{"Authorization": "JWT a b"}}, cfg)
	if err == nil || !strings.Contains(err.Error(), "unexpected whitespace") {
		t.Fatalf("want 'unexpected whitespace' message, got %v", err)
	}

	if !IsCredentialError(ErrNoCredentials) || !IsCredentialError(ErrCredentialWhitespace) || !IsCredentialError(ErrCredentialEncoding) {
		t.Fatal("IsCredentialError must cover the locator taxonomy")
	}
	if IsCredentialError(ErrTokenInvalid) {
		t.Fatal("IsCredentialError must not cover token verification errors")
	}
}

func TestMetaKey(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"Authorization", "HTTP_AUTHORIZATION"},
		{"X-CSRF-Token", "HTTP_X_CSRF_TOKEN"},
		{"x-auth", "HTTP_X_AUTH"},
	}
	for _, tt := range tests {
		if got := MetaKey(tt.field); got != tt.want {
			t.Fatalf("MetaKey(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestFromHTTPRequestForm(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader("Authorization=JWT+abc123&other=1"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Custom", "v")
	r.AddCookie(&http.Cookie{Name: "sessionid", Value: "s1"})

	req := FromHTTPRequest(r)
	if req.Cookies["sessionid"] != "s1" {
		t.Fatalf("cookie = %q", req.Cookies["sessionid"])
	}
	if req.Body["Authorization"] != "JWT abc123" {
		t.Fatalf("body field = %q", req.Body["Authorization"])
	}
	if req.Meta["HTTP_X_CUSTOM"] != "v" {
		t.Fatalf("meta = %q", req.Meta["HTTP_X_CUSTOM"])
	}
	if req.Method != "POST" {
		t.Fatalf("method = %q", req.Method)
	}
}

func TestFromHTTPRequestJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"Authorization":"JWT abc123","count":3}`))
	r.Header.Set("Content-Type", "application/json")

	req := FromHTTPRequest(r)
	if req.Body["Authorization"] != "JWT abc123" {
		t.Fatalf("body field = %q", req.Body["Authorization"])
	}
	if _, ok := req.Body["count"]; ok {
		t.Fatal("non-string JSON fields must be skipped")
	}
}
