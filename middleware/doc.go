// Package middleware adapts the flexauth authenticator chain to net/http
// handlers. Schemes are tried in order; a scheme reporting "no credential"
// falls through to the next, while a scheme error rejects the request with
// the taxonomy message.
package middleware
