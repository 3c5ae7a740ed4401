package types

// StaticKeypair is the long-lived keypair every peer derives from the shared
// password. Only the server keeps the private half after derivation.
type StaticKeypair struct {
	Public  PublicKey
	Private PrivateKey
}

// EphemeralKeypair is generated once per connection attempt and discarded.
type EphemeralKeypair struct {
	Public  PublicKey
	Private PrivateKey
}
