package tunnel

import (
	"crypto/rand"
	"fmt"
	"net"
	"sync"

	"oxy/internal/domain"
	"oxy/internal/protocol/handshake"
	"oxy/internal/protocol/session"
)

// Conn is an established oxy connection. Read and Write may be used from
// different goroutines; each direction has its own lock and nonce sequence.
type Conn struct {
	net.Conn

	rmu     sync.Mutex
	wmu     sync.Mutex
	sess    *session.Session
	pending []byte
}

var _ net.Conn = (*Conn)(nil)

// Client sends a handshake for serverPub on nc and returns the wrapped
// connection. nc is closed on failure.
func Client(nc net.Conn, serverPub domain.PublicKey) (*Conn, error) {
	sm, err := handshake.Write(nc, rand.Reader, serverPub)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return newConn(nc, sm, domain.RoleClient), nil
}

// Server reads and verifies a handshake on nc and returns the wrapped
// connection. nc is closed on failure.
func Server(nc net.Conn, serverPriv *domain.PrivateKey) (*Conn, error) {
	sm, err := handshake.Read(nc, serverPriv)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return newConn(nc, sm, domain.RoleServer), nil
}

func newConn(nc net.Conn, sm domain.SessionMaterial, role domain.Role) *Conn {
	return &Conn{Conn: nc, sess: session.New(sm, role)}
}

// Read returns decrypted bytes, reading a new frame when the previous one has
// been consumed.
func (c *Conn) Read(p []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	for len(c.pending) == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		payload, err := c.sess.ReadFrame(c.Conn)
		if err != nil {
			return 0, err
		}
		c.pending = payload
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Write encrypts p into one or more frames.
func (c *Conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	written := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > session.MaxPayload {
			chunk = chunk[:session.MaxPayload]
		}
		frame, err := c.sess.AppendFrame(nil, chunk)
		if err != nil {
			return written, err
		}
		if _, err := c.Conn.Write(frame); err != nil {
			return written, fmt.Errorf("write frame: %w", err)
		}
		written += len(chunk)
		p = p[len(chunk):]
	}
	return written, nil
}
