package domain

import (
	interfaces "oxy/internal/domain/interfaces"
	types "oxy/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Seed             = types.Seed
	PublicKey        = types.PublicKey
	PrivateKey       = types.PrivateKey
	SessionKey       = types.SessionKey
	Nonce            = types.Nonce
	StaticKeypair    = types.StaticKeypair
	EphemeralKeypair = types.EphemeralKeypair
	SessionMaterial  = types.SessionMaterial
	Fingerprint      = types.Fingerprint
	Role             = types.Role
	Health           = types.Health
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService = interfaces.IdentityService
	StatusClient    = interfaces.StatusClient
)

const (
	KeySize   = types.KeySize
	NonceSize = types.NonceSize

	RoleServer = types.RoleServer
	RoleClient = types.RoleClient
)

// ParseRole maps the --mode flag value to a Role.
func ParseRole(s string) (Role, bool) { return types.ParseRole(s) }
