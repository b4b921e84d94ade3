// Package session implements the Redis-backed session store behind the
// session authenticator. Sessions are JSON blobs with an absolute expiry,
// optionally renewed on every read (sliding expiration), indexed per user
// so all of a user's sessions can be invalidated at once.
package session
