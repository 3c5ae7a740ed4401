package types

const (
	// KeySize is the length of every Curve25519 and secretbox key.
	KeySize = 32
	// NonceSize is the length of an XSalsa20 nonce.
	NonceSize = 24
)

// Seed is the deterministic output of the password KDF.
type Seed [KeySize]byte

// Slice returns the seed as a []byte.
func (s *Seed) Slice() []byte { return s[:] }

// PublicKey is a Curve25519 public key.
type PublicKey [KeySize]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// PrivateKey is a Curve25519 private scalar.
type PrivateKey [KeySize]byte

// Slice returns the key as a []byte.
func (k *PrivateKey) Slice() []byte { return k[:] }

// SessionKey is the symmetric key negotiated by the handshake.
type SessionKey [KeySize]byte

// Slice returns the key as a []byte.
func (k *SessionKey) Slice() []byte { return k[:] }

// Nonce is a 24-byte XSalsa20 nonce.
type Nonce [NonceSize]byte

// Slice returns the nonce as a []byte.
func (n Nonce) Slice() []byte { return n[:] }
