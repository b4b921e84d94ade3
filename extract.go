package flexauth

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
)

// Source identifies which transport location produced a credential.
type Source uint8

const (
	// SourceNone marks an absent credential.
	SourceNone Source = iota
	// SourceBody marks a credential read from the parsed request body.
	SourceBody
	// SourceHeader marks a credential read from transport metadata.
	SourceHeader
	// SourceCookie marks a credential read from the configured cookie.
	SourceCookie
)

// String returns the lowercase name of the source.
func (s Source) String() string {
	switch s {
	case SourceBody:
		return "body"
	case SourceHeader:
		return "header"
	case SourceCookie:
		return "cookie"
	default:
		return "none"
	}
}

// Extraction is the result of a successful credential lookup. The zero
// value (Source == SourceNone) means no credential was found and the
// request must proceed unauthenticated.
type Extraction struct {
	Token  string
	Source Source
}

// Present reports whether a credential was located.
func (e Extraction) Present() bool {
	return e.Source != SourceNone
}

// Request is the transport-neutral carrier the credential locator operates
// on: a parsed body mapping, CGI-style transport metadata, and cookies.
// Lookups on missing keys yield empty values and never panic.
type Request struct {
	// Method is the HTTP method, used only by CSRF enforcement.
	Method string
	// Body holds parsed body fields (form or flat JSON object).
	Body map[string]string
	// Meta holds transport metadata keyed CGI-style: HTTP_ plus the
	// upper-cased header name with '-' replaced by '_'.
	Meta map[string]string
	// Cookies maps cookie names to values.
	Cookies map[string]string
}

// MetaKey converts a header field name to its transport metadata key,
// e.g. "Authorization" -> "HTTP_AUTHORIZATION", "X-CSRF-Token" ->
// "HTTP_X_CSRF_TOKEN".
func MetaKey(field string) string {
	return "HTTP_" + strings.ReplaceAll(strings.ToUpper(field), "-", "_")
}

// FromHTTPRequest builds a [Request] carrier from a net/http request.
// Form-encoded bodies are read via ParseForm; JSON object bodies are
// decoded and their string-valued fields kept. Body parsing consumes
// r.Body for JSON payloads.
func FromHTTPRequest(r *http.Request) Request {
	req := Request{
		Method:  r.Method,
		Body:    map[string]string{},
		Meta:    make(map[string]string, len(r.Header)),
		Cookies: map[string]string{},
	}

	for name, values := range r.Header {
		if len(values) == 0 {
			continue
		}
		req.Meta[MetaKey(name)] = values[0]
	}

	for _, c := range r.Cookies() {
		req.Cookies[c.Name] = c.Value
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err == nil {
			// Leave the body readable for downstream handlers.
			r.Body = io.NopCloser(bytes.NewReader(body))
			var fields map[string]any
			if json.Unmarshal(body, &fields) == nil {
				for k, v := range fields {
					if s, ok := v.(string); ok {
						req.Body[k] = s
					}
				}
			}
		}
	default:
		if err := r.ParseForm(); err == nil {
			for k := range r.PostForm {
				req.Body[k] = r.PostForm.Get(k)
			}
		}
	}

	return req
}

// Extract locates the raw token string for the configured credential field.
//
// Lookup order: the parsed body, then transport metadata under the
// CGI-style key, then (only when the tokenized value is empty) the
// configured cookie. A prefix mismatch or a fully absent credential
// returns a zero Extraction with a nil error so callers can fall through
// to the next authentication scheme. Structural problems return
// [ErrNoCredentials], [ErrCredentialWhitespace], or [ErrCredentialEncoding].
//
// Extract is a pure function of the request and config.
func Extract(req Request, cfg CredentialConfig) (Extraction, error) {
	raw, source := rawCredential(req, cfg)
	if !latin1Encodable(raw) {
		return Extraction{}, ErrCredentialEncoding
	}

	auth := strings.Fields(raw)

	if len(auth) == 0 {
		if cfg.CookieName != "" {
			if value, ok := req.Cookies[cfg.CookieName]; ok {
				return Extraction{Token: value, Source: SourceCookie}, nil
			}
		}
		return Extraction{}, nil
	}

	expectedPrefix := strings.ToLower(cfg.HeaderPrefix)
	if expectedPrefix == "" {
		// Empty-scheme sentinel: the prefix check below then passes
		// uniformly for schemes with no keyword.
		auth = append([]string{""}, auth...)
	}

	if strings.ToLower(auth[0]) != expectedPrefix {
		return Extraction{}, nil
	}

	if len(auth) == 1 {
		return Extraction{}, ErrNoCredentials
	}
	if len(auth) > 2 {
		return Extraction{}, ErrCredentialWhitespace
	}

	return Extraction{Token: auth[1], Source: source}, nil
}

func rawCredential(req Request, cfg CredentialConfig) (string, Source) {
	if value := req.Body[cfg.Field]; value != "" {
		return value, SourceBody
	}
	if value := req.Meta[MetaKey(cfg.Field)]; value != "" {
		return value, SourceHeader
	}
	return "", SourceNone
}

// latin1Encodable reports whether s survives the ISO-8859-1 round trip
// headers are transported in.
func latin1Encodable(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}
