package crypto

import (
	"golang.org/x/crypto/argon2"

	"oxy/internal/domain"
	"oxy/internal/util/memzero"
)

// Argon2id parameters matching libsodium's crypto_pwhash INTERACTIVE limits.
const (
	kdfTime    = 2
	kdfMemory  = 64 * 1024 // KiB
	kdfThreads = 1
)

var kdfSalt = [16]byte{
	0x69, 0x37, 0x27, 0xe0, 0xf0, 0xe6, 0xc0, 0xb2,
	0xf9, 0x56, 0x1b, 0xe4, 0xc8, 0xb6, 0x95, 0x07,
}

// DeriveSeed stretches password into a 32-byte seed with Argon2id.
//
// The same password always yields the same seed. An empty password is valid.
func DeriveSeed(password []byte) domain.Seed {
	var seed domain.Seed
	key := argon2.IDKey(password, kdfSalt[:], kdfTime, kdfMemory, kdfThreads, domain.KeySize)
	copy(seed[:], key)
	memzero.Zero(key)
	return seed
}
