package types

import "fmt"

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Role selects which end of the tunnel a process plays.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

// String returns the flag spelling of the role.
func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole maps the --mode flag value to a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "server":
		return RoleServer, true
	case "client":
		return RoleClient, true
	}
	return 0, false
}
