package crypto

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"oxy/internal/domain"
	"oxy/internal/util/memzero"
)

// KeypairFromSeed maps a seed to a Curve25519 keypair deterministically.
//
// The private scalar is the first half of SHA-512(seed), left unclamped as in
// crypto_box_seed_keypair; X25519 clamps it on every use.
func KeypairFromSeed(seed *domain.Seed) (domain.StaticKeypair, error) {
	var kp domain.StaticKeypair
	digest := sha512.Sum512(seed[:])
	defer memzero.Zero(digest[:])
	copy(kp.Private[:], digest[:domain.KeySize])

	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		memzero.Zero(kp.Private[:])
		return domain.StaticKeypair{}, fmt.Errorf("derive public key: %w", err)
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// GenerateEphemeral returns a fresh keypair drawn from rand.
func GenerateEphemeral(rand io.Reader) (domain.EphemeralKeypair, error) {
	pub, priv, err := box.GenerateKey(rand)
	if err != nil {
		return domain.EphemeralKeypair{}, fmt.Errorf("generate ephemeral key: %w", err)
	}
	kp := domain.EphemeralKeypair{Public: *pub, Private: *priv}
	memzero.Zero(priv[:])
	return kp, nil
}
