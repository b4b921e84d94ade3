package flexauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	internalaudit "github.com/flexauth/flexauth/internal/audit"
	"github.com/flexauth/flexauth/session"
	"github.com/redis/go-redis/v9"
)

// Authenticator is one scheme in an authentication chain. Authenticate
// returns (nil, nil) when the scheme finds no credential on the request, so
// the caller can fall through to the next scheme; a non-nil error rejects
// the request. EnforceCSRF runs only after the scheme authenticated the
// request.
type Authenticator interface {
	Authenticate(ctx context.Context, req Request) (*Identity, error)
	EnforceCSRF(req Request) error
}

// SessionAuthenticator authenticates requests by their session cookie
// against the Redis session store. Unsafe methods are subject to a
// double-submit CSRF check; wrap with [CSRFExempt] to disable it.
type SessionAuthenticator struct {
	store   *session.Store
	cfg     SessionConfig
	metrics *Metrics
	audit   *internalaudit.Dispatcher
}

// NewSessionAuthenticator builds a session authenticator over store.
// metrics may be nil.
func NewSessionAuthenticator(store *session.Store, cfg SessionConfig, metrics *Metrics) *SessionAuthenticator {
	return &SessionAuthenticator{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
	}
}

// Authenticate implements [Authenticator]. An absent or unknown session
// cookie yields (nil, nil); only a backend failure is an error.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, req Request) (*Identity, error) {
	if a == nil || a.store == nil {
		return nil, ErrEngineNotReady
	}

	sessionID := req.Cookies[a.cfg.CookieName]
	if sessionID == "" {
		return nil, nil
	}

	sess, err := a.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Stale cookie: proceed unauthenticated.
			return nil, nil
		}
		a.metrics.Inc(MetricSessionAuthFailure)
		wrapped := fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
		a.emitAudit(ctx, "", false, wrapped)
		return nil, wrapped
	}

	a.metrics.Inc(MetricSessionAuthSuccess)
	a.emitAudit(ctx, sess.UserID, true, nil)

	return &Identity{
		UserID:   sess.UserID,
		Username: sess.Username,
		IsAdmin:  sess.IsAdmin,
		Source:   SourceCookie,
	}, nil
}

// EnforceCSRF implements [Authenticator] with a double-submit check: on
// unsafe methods the CSRF header must match the CSRF cookie.
func (a *SessionAuthenticator) EnforceCSRF(req Request) error {
	switch req.Method {
	case "", "GET", "HEAD", "OPTIONS", "TRACE":
		return nil
	}

	cookie := req.Cookies[a.cfg.CSRFCookieName]
	header := req.Meta[MetaKey(a.cfg.CSRFHeader)]
	if cookie == "" || header == "" {
		return ErrCSRFFailed
	}
	if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
		return ErrCSRFFailed
	}
	return nil
}

func (a *SessionAuthenticator) emitAudit(ctx context.Context, userID string, success bool, err error) {
	if a.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp: time.Now().UTC(),
		EventType: AuditSessionAuth,
		UserID:    userID,
		Source:    SourceCookie.String(),
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}

	a.audit.Emit(ctx, event)
}

// csrfExempt is the session-authentication variant that unconditionally
// skips CSRF enforcement for requests it authenticates.
type csrfExempt struct {
	Authenticator
}

// EnforceCSRF always passes.
func (csrfExempt) EnforceCSRF(Request) error {
	return nil
}

// CSRFExempt wraps an authenticator so that CSRF enforcement is skipped for
// every request it authenticates. Intended for session authentication of
// non-browser clients; use sparingly.
func CSRFExempt(a Authenticator) Authenticator {
	return csrfExempt{Authenticator: a}
}
