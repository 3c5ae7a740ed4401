package crypto

import (
	"golang.org/x/crypto/nacl/box"

	"oxy/internal/domain"
	"oxy/internal/util/memzero"
)

// TagSize is the Poly1305 authenticator length.
const TagSize = box.Overhead

// SealDetached encrypts plaintext to peer with priv and returns
// ciphertext ‖ tag, the same length as plaintext plus TagSize.
func SealDetached(plaintext []byte, nonce *domain.Nonce, peer *domain.PublicKey, priv *domain.PrivateKey) []byte {
	var shared [domain.KeySize]byte
	box.Precompute(&shared, (*[32]byte)(peer), (*[32]byte)(priv))
	defer memzero.Zero(shared[:])

	// box emits tag ‖ ciphertext; move the tag behind the ciphertext.
	combined := box.SealAfterPrecomputation(nil, plaintext, (*[24]byte)(nonce), &shared)
	sealed := make([]byte, len(combined))
	n := copy(sealed, combined[TagSize:])
	copy(sealed[n:], combined[:TagSize])
	return sealed
}

// Precompute derives the box shared key for peer and priv.
func Precompute(peer *domain.PublicKey, priv *domain.PrivateKey) [domain.KeySize]byte {
	var shared [domain.KeySize]byte
	box.Precompute(&shared, (*[32]byte)(peer), (*[32]byte)(priv))
	return shared
}

// OpenDetached authenticates and decrypts a ciphertext ‖ tag block with a
// precomputed shared key. It reports false on any failure.
func OpenDetached(sealed []byte, nonce *domain.Nonce, shared *[domain.KeySize]byte) ([]byte, bool) {
	if len(sealed) < TagSize {
		return nil, false
	}
	body := len(sealed) - TagSize
	combined := make([]byte, len(sealed))
	copy(combined, sealed[body:])
	copy(combined[TagSize:], sealed[:body])
	return box.OpenAfterPrecomputation(nil, combined, (*[24]byte)(nonce), shared)
}
