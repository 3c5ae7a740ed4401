package tunnel

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc/credentials"

	"oxy/internal/domain"
)

// AuthType names the protocol in gRPC peer information.
const AuthType = "oxy"

// Credentials implements credentials.TransportCredentials with the oxy
// handshake. Build it with NewServerCredentials or NewClientCredentials.
type Credentials struct {
	serverPub  domain.PublicKey
	serverPriv *domain.PrivateKey
}

var _ credentials.TransportCredentials = (*Credentials)(nil)

// NewServerCredentials returns credentials for a gRPC server holding priv.
func NewServerCredentials(priv domain.PrivateKey) credentials.TransportCredentials {
	return &Credentials{serverPriv: &priv}
}

// NewClientCredentials returns credentials for a gRPC client dialing a server
// whose public key is pub.
func NewClientCredentials(pub domain.PublicKey) credentials.TransportCredentials {
	return &Credentials{serverPub: pub}
}

// ClientHandshake sends the handshake on rawConn, honouring ctx's deadline.
func (g *Credentials) ClientHandshake(ctx context.Context, _ string, rawConn net.Conn) (net.Conn, credentials.AuthInfo, error) {
	if dl, ok := ctx.Deadline(); ok {
		rawConn.SetWriteDeadline(dl)
		defer rawConn.SetWriteDeadline(time.Time{})
	}
	c, err := Client(rawConn, g.serverPub)
	if err != nil {
		return nil, nil, err
	}
	return c, newAuthInfo(), nil
}

// ServerHandshake reads and verifies the handshake on rawConn.
func (g *Credentials) ServerHandshake(rawConn net.Conn) (net.Conn, credentials.AuthInfo, error) {
	if g.serverPriv == nil {
		rawConn.Close()
		return nil, nil, domain.ErrHandshakeRejected
	}
	c, err := Server(rawConn, g.serverPriv)
	if err != nil {
		return nil, nil, err
	}
	return c, newAuthInfo(), nil
}

// Info describes the protocol.
func (g *Credentials) Info() credentials.ProtocolInfo {
	return credentials.ProtocolInfo{SecurityProtocol: AuthType}
}

// Clone returns a copy of g.
func (g *Credentials) Clone() credentials.TransportCredentials {
	cp := *g
	if g.serverPriv != nil {
		priv := *g.serverPriv
		cp.serverPriv = &priv
	}
	return &cp
}

// OverrideServerName is a no-op; oxy has no host names or certificates.
func (g *Credentials) OverrideServerName(string) error { return nil }

// AuthInfo is attached to every gRPC peer secured by oxy.
type AuthInfo struct {
	credentials.CommonAuthInfo
}

func newAuthInfo() AuthInfo {
	return AuthInfo{CommonAuthInfo: credentials.CommonAuthInfo{SecurityLevel: credentials.PrivacyAndIntegrity}}
}

// AuthType returns "oxy".
func (AuthInfo) AuthType() string { return AuthType }
