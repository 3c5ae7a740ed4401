// Package handshake builds and opens the fixed-size first message of an oxy
// connection.
//
// # Overview
//
// The client proves knowledge of the shared password by encrypting fresh
// session material to the server's static public key, which both sides derive
// from the password. The message is always MessageSize bytes:
//
//	[24B nonce][32B ephemeral public key][0..99B padding][96B sealed block][fill]
//
// The sealed block is NaCl box ciphertext of
//
//	[32B session key][24B client->server nonce][24B server->client nonce]
//
// followed by its 16-byte tag. Padding and fill are random, so the on-wire size
// and content reveal nothing about where the sealed block sits.
//
// # Flows
//
// Client:
//  1. Generate an ephemeral keypair and a random outer nonce.
//  2. Generate session material with distinct directional nonces.
//  3. Pick a padding length in [0, MaxPadding).
//  4. Seal the session block to the server key and lay out the buffer.
//
// Server:
//  1. Require exactly MessageSize bytes.
//  2. Precompute the shared key from the embedded ephemeral public key.
//  3. Try every padding offset until one block authenticates.
//  4. Decode the session material and reject equal directional nonces.
//
// # Errors
//
// Open and Read return domain.ErrHandshakeRejected for every integrity failure,
// whatever the cause. Build and Write only fail when the random source does.
package handshake
