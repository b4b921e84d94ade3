// Package flexauth is a pluggable JWT authentication backend for HTTP
// services. It locates a signed token across several request transports
// (parsed body field, Authorization-style header, cookie), verifies it
// through the jwt sub-package, and issues fresh tokens whose claim set is
// built from a caller-supplied user record.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// flexauth is the public surface. It exposes [Engine], [Builder], [Config],
// the [Authenticator] chain contract, and value types (Identity,
// MetricsSnapshot, AuditEvent). Asynchronous audit dispatch lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Implement token signing or verification cryptography. That belongs to
//     github.com/golang-jwt/jwt/v5, wrapped by the jwt sub-package.
//   - Own HTTP routing. The middleware sub-package only adapts the
//     authenticator chain to net/http handlers.
//   - Read ambient global settings inside request handling. All
//     configuration is resolved once in [Builder.Build].
//
// # Performance contract
//
// Extract and BuildPayload are pure functions of their inputs and perform
// no I/O. Authenticate performs at most one user-provider lookup per call;
// session authentication performs one Redis round-trip.
package flexauth
