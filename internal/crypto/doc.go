// Package crypto exposes the primitives oxy builds its handshake from.
//
// Contents
//
//   - Password to seed derivation with Argon2id and a fixed salt (DeriveSeed)
//   - Deterministic static keypair from a seed (KeypairFromSeed)
//   - Fresh ephemeral keypairs (GenerateEphemeral)
//   - NaCl box sealing with the tag appended after the ciphertext
//     (SealDetached, OpenDetached)
//   - Random fill and bounded random integers from a caller-supplied source
//     (Fill, Intn)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Every function that consumes randomness takes an io.Reader so tests can pin
// it; production callers pass crypto/rand.Reader. All primitives are reentrant
// and safe to call from every connection goroutine at once.
//
// The fixed salt means every installation that shares a password derives the
// same keypair. The salt only stops precomputed tables against the KDF.
package crypto
