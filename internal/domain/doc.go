// Package domain defines the key, session and status types shared across oxy,
// plus the service contracts the app layer wires together.
//
// The static keypair is derived from the shared password alone. There is no
// certificate authority and no out-of-band key check: the password is the
// entire trust root.
package domain
