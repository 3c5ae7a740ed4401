package interfaces

import (
	domaintypes "oxy/internal/domain/types"
)

// IdentityService derives the password-bound static identity.
type IdentityService interface {
	Derive(password string) (domaintypes.StaticKeypair, error)
	ServerPublicKey(password string) (domaintypes.PublicKey, error)
	Fingerprint(password string) (domaintypes.Fingerprint, error)
}
