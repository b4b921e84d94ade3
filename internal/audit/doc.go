// Package audit implements the asynchronous audit event dispatcher used by
// the engine. Events are buffered on a channel and forwarded to a sink from
// a single goroutine; the dispatcher never blocks the authentication path
// when DropIfFull is set.
package audit
