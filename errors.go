package flexauth

import "errors"

var (
	// ErrNoCredentials is returned when the credential value contains the
	// scheme prefix but no token.
	ErrNoCredentials = errors.New("invalid authorization: no credentials provided")
	// ErrCredentialWhitespace is returned when the credential value contains
	// embedded whitespace that makes the token ambiguous.
	ErrCredentialWhitespace = errors.New("invalid authorization: credentials contain unexpected whitespace")
	// ErrCredentialEncoding is returned when the credential value cannot be
	// represented in the ISO-8859-1 header transport encoding.
	ErrCredentialEncoding = errors.New("invalid authorization: credential not representable in header encoding")
	// ErrTokenInvalid is returned when a located token fails verification.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrUserNotFound is returned when a verified token references an unknown user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserInactive is returned when the user provider reports a disabled account.
	ErrUserInactive = errors.New("user inactive")
	// ErrRefreshDisabled is returned by RefreshToken when refresh is not configured.
	ErrRefreshDisabled = errors.New("token refresh disabled")
	// ErrRefreshExpired is returned when the original issue time falls outside
	// the refresh window.
	ErrRefreshExpired = errors.New("refresh window expired")
	// ErrCSRFFailed is returned when a session-authenticated unsafe request
	// fails the CSRF check.
	ErrCSRFFailed = errors.New("csrf verification failed")
	// ErrSessionUnavailable is returned when the session backend cannot be reached.
	ErrSessionUnavailable = errors.New("session backend unavailable")
	// ErrEngineNotReady is returned when an Engine method is called before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// IsCredentialError reports whether err belongs to the credential-locator
// failure taxonomy. These errors carry a user-facing message and must be
// answered with an authentication-failure response; any other outcome of
// extraction means "proceed unauthenticated".
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrNoCredentials) ||
		errors.Is(err, ErrCredentialWhitespace) ||
		errors.Is(err, ErrCredentialEncoding)
}
