// Package identity derives the password-bound static identity of an oxy
// endpoint.
//
// The password is the whole trust root: there is no certificate or key
// exchange out of band, and anyone who knows the password can derive the
// server keypair. Nothing is cached or persisted; every call recomputes the
// Argon2id seed and wipes it afterwards.
package identity
