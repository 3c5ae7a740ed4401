// Package session encrypts application traffic once the handshake has
// delivered session material.
//
// Each direction has its own base nonce. Message n in a direction is sealed
// with secretbox under the session key and nonce base+n, so a nonce is never
// used twice. Frames carry n explicitly and the receiver only accepts the next
// expected value, which rejects replayed, dropped and reordered frames.
//
// Concurrency: Session is NOT safe for concurrent use. Callers serialise Seal
// and Open per connection.
package session
