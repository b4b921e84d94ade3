package flexauth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	internalaudit "github.com/flexauth/flexauth/internal/audit"
	"github.com/flexauth/flexauth/jwt"
	"github.com/flexauth/flexauth/session"
)

// Identity is the outcome of a successful authentication.
type Identity struct {
	UserID   string
	Username string
	IsAdmin  bool
	// Source records which transport carried the credential.
	Source Source
	// Claims is the verified claim set for token authentication; nil for
	// session authentication.
	Claims Claims
	// User is the resolved user record, when a provider lookup happened.
	User TokenUser
}

// Engine authenticates requests carrying signed tokens and issues fresh
// tokens for user records. Construct it through [Builder.Build]; all
// methods are then safe for concurrent use.
type Engine struct {
	config  Config
	tokens  *jwt.Manager
	users   UserProvider
	resolve UsernameResolver
	metrics *Metrics
	audit   *internalaudit.Dispatcher

	sessions *SessionAuthenticator
}

// SessionAuthenticator returns the session authentication scheme built
// alongside this engine, if a Redis client was supplied.
func (e *Engine) SessionAuthenticator() (*SessionAuthenticator, bool) {
	if e == nil || e.sessions == nil {
		return nil, false
	}
	return e.sessions, true
}

// SessionStore exposes the underlying session store for login/logout
// handlers, if session authentication is configured.
func (e *Engine) SessionStore() (*session.Store, bool) {
	if e == nil || e.sessions == nil {
		return nil, false
	}
	return e.sessions.store, true
}

// Authenticate locates, verifies, and resolves the credential on req.
//
// The (nil, nil) return means no credential was found (or the scheme prefix
// did not match) and the caller must proceed unauthenticated — typically by
// falling through to another authentication scheme. A non-nil error always
// means the request must be rejected with the error's message.
func (e *Engine) Authenticate(ctx context.Context, req Request) (*Identity, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	extraction, err := Extract(req, e.config.Credential)
	if err != nil {
		e.metrics.Inc(MetricExtractMalformed)
		e.emitAudit(ctx, AuditTokenAuth, "", extraction.Source, false, err)
		return nil, err
	}
	if !extraction.Present() {
		e.metrics.Inc(MetricExtractAbsent)
		return nil, nil
	}
	e.incSource(extraction.Source)

	claims, err := e.tokens.Parse(extraction.Token)
	if err != nil {
		e.metrics.Inc(MetricAuthFailure)
		wrapped := fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		e.emitAudit(ctx, AuditTokenAuth, "", extraction.Source, false, wrapped)
		return nil, wrapped
	}

	userID := claimString(claims["user_id"])
	if userID == "" {
		e.metrics.Inc(MetricAuthFailure)
		wrapped := fmt.Errorf("%w: missing user_id claim", ErrTokenInvalid)
		e.emitAudit(ctx, AuditTokenAuth, "", extraction.Source, false, wrapped)
		return nil, wrapped
	}

	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		e.metrics.Inc(MetricAuthFailure)
		wrapped := fmt.Errorf("%w: %v", ErrUserNotFound, err)
		e.emitAudit(ctx, AuditTokenAuth, userID, extraction.Source, false, wrapped)
		return nil, wrapped
	}
	if user == nil {
		e.metrics.Inc(MetricAuthFailure)
		e.emitAudit(ctx, AuditTokenAuth, userID, extraction.Source, false, ErrUserNotFound)
		return nil, ErrUserNotFound
	}

	isAdmin, _ := claims["is_admin"].(bool)
	identity := &Identity{
		UserID:   userID,
		Username: claimString(claims[e.config.Token.UsernameClaim]),
		IsAdmin:  isAdmin,
		Source:   extraction.Source,
		Claims:   Claims(claims),
		User:     user,
	}

	e.metrics.Inc(MetricAuthSuccess)
	e.emitAudit(ctx, AuditTokenAuth, userID, extraction.Source, true, nil)

	return identity, nil
}

// EnforceCSRF implements [Authenticator]. Token authentication carries no
// ambient browser credential, so there is nothing to enforce.
func (e *Engine) EnforceCSRF(Request) error {
	return nil
}

// IssueToken builds the claim set for user and signs it.
func (e *Engine) IssueToken(ctx context.Context, user TokenUser) (string, error) {
	if e == nil || e.tokens == nil {
		return "", ErrEngineNotReady
	}

	payload := BuildPayload(user, e.config.Token, e.resolve, time.Now())
	token, err := e.tokens.Sign(payload)
	if err != nil {
		return "", err
	}

	e.metrics.Inc(MetricIssueSuccess)
	e.emitAudit(ctx, AuditTokenIssued, claimString(payload["user_id"]), SourceNone, true, nil)

	return token, nil
}

// RefreshToken reissues a token whose signature still verifies, preserving
// the original orig_iat claim. The refresh is rejected once the original
// issue time falls outside the configured refresh window. The referenced
// user must still resolve through the provider.
func (e *Engine) RefreshToken(ctx context.Context, tokenStr string) (string, error) {
	if e == nil || e.tokens == nil {
		return "", ErrEngineNotReady
	}
	if !e.config.Token.AllowRefresh {
		return "", ErrRefreshDisabled
	}

	claims, err := e.tokens.ParseExpired(tokenStr)
	if err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	origIAT, ok := claimInt64(claims["orig_iat"])
	if !ok {
		e.metrics.Inc(MetricRefreshFailure)
		return "", fmt.Errorf("%w: missing orig_iat claim", ErrTokenInvalid)
	}

	now := time.Now().UTC()
	if now.After(time.Unix(origIAT, 0).Add(e.config.Token.RefreshLimit)) {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditTokenRefresh, claimString(claims["user_id"]), SourceNone, false, ErrRefreshExpired)
		return "", ErrRefreshExpired
	}

	userID := claimString(claims["user_id"])
	if userID == "" {
		e.metrics.Inc(MetricRefreshFailure)
		return "", fmt.Errorf("%w: missing user_id claim", ErrTokenInvalid)
	}
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditTokenRefresh, userID, SourceNone, false, ErrUserNotFound)
		return "", ErrUserNotFound
	}

	payload := BuildPayload(user, e.config.Token, e.resolve, now)
	payload["orig_iat"] = origIAT

	token, err := e.tokens.Sign(payload)
	if err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		return "", err
	}

	e.metrics.Inc(MetricRefreshSuccess)
	e.emitAudit(ctx, AuditTokenRefresh, userID, SourceNone, true, nil)

	return token, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return cloneConfig(e.config)
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close drains and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

func (e *Engine) incSource(source Source) {
	switch source {
	case SourceBody:
		e.metrics.Inc(MetricExtractBody)
	case SourceHeader:
		e.metrics.Inc(MetricExtractHeader)
	case SourceCookie:
		e.metrics.Inc(MetricExtractCookie)
	}
}

func (e *Engine) emitAudit(ctx context.Context, eventType, userID string, source Source, success bool, err error) {
	if e.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if source != SourceNone {
		event.Source = source.String()
	}
	if err != nil {
		event.Error = err.Error()
	}

	e.audit.Emit(ctx, event)
}

func claimString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return fmt.Sprintf("%.0f", value)
	case int64:
		return fmt.Sprintf("%d", value)
	case int:
		return fmt.Sprintf("%d", value)
	case json.Number:
		return value.String()
	default:
		return ""
	}
}

func claimInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case float64:
		return int64(value), true
	case int64:
		return value, true
	case int:
		return int64(value), true
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
