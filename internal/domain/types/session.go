package types

// SessionMaterial is the symmetric state carried inside the handshake.
//
// ClientToServer and ServerToClient are the base nonces for each traffic
// direction; they must differ.
type SessionMaterial struct {
	Key            SessionKey
	ClientToServer Nonce
	ServerToClient Nonce
}

// Distinct reports whether the two directional nonces differ.
func (m SessionMaterial) Distinct() bool {
	return m.ClientToServer != m.ServerToClient
}
