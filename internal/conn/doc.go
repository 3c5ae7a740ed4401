// Package conn runs one oxy connection as an event loop.
//
// # Overview
//
// A Loop exclusively owns one stream. Readiness is delivered as events: a
// reader goroutine blocks on the socket (the runtime netpoller parks it) and
// posts each chunk it reads, or the terminal error, to the loop. The loop
// goroutine is the only place that touches protocol state. It buffers inbound
// bytes, consumes the fixed-size handshake while AwaitingHandshake, then
// decodes whole frames once Established and hands payloads to the Handler.
//
// Interest in writability is re-armed on every turn: the loop only offers a
// frame to the writer goroutine when the outbound queue is non-empty.
//
// # Lifecycle
//
//	Created -> Initialized -> Running -> Closed
//
// Init prepares the role. A client writes its handshake during Init and is
// Established immediately; a server stays AwaitingHandshake until a valid
// handshake arrives. Run drives events until the peer closes, an error occurs,
// the context is cancelled or Close is called.
//
// # Errors
//
// A bad handshake ends the loop with domain.ErrHandshakeRejected. Peer EOF on
// a frame boundary ends it with a nil error. Nothing a single Loop does affects
// any other Loop.
package conn
