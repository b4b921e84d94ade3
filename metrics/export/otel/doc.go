// Package otel exports the flexauth counter registry through OpenTelemetry
// observable instruments. The exporter reads a metrics snapshot on every
// collection; it never adds work to the authentication hot path.
package otel
