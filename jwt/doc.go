// Package jwt wraps the external signing collaborator
// (github.com/golang-jwt/jwt/v5) behind a Manager that signs and verifies
// the flat claim mappings produced by the payload builder. No cryptographic
// decisions live outside this package.
package jwt
