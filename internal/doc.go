// Package internal holds coordination code that must never leak into the
// public flexauth API surface.
package internal
