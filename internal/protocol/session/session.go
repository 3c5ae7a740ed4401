package session

import (
	"math"

	"golang.org/x/crypto/nacl/secretbox"

	"oxy/internal/domain"
	"oxy/internal/util/memzero"
)

// Overhead is the secretbox authenticator length added to each payload.
const Overhead = secretbox.Overhead

type direction struct {
	base domain.Nonce
	seq  uint64
}

// nonceAt returns base+seq as a little-endian 192-bit sum.
func (d *direction) nonceAt(seq uint64) *[domain.NonceSize]byte {
	out := [domain.NonceSize]byte(d.base)
	carry := seq
	for i := 0; i < domain.NonceSize && carry != 0; i++ {
		sum := uint64(out[i]) + carry&0xff
		out[i] = byte(sum)
		carry = carry>>8 + sum>>8
	}
	return &out
}

func (d *direction) advance() error {
	if d.seq == math.MaxUint64 {
		return domain.ErrNonceOverflow
	}
	d.seq++
	return nil
}

// Session is the symmetric state of one established connection.
type Session struct {
	key  [domain.KeySize]byte
	send direction
	recv direction
}

// New returns the session for role. Clients send on the client->server nonce
// and receive on the server->client nonce; servers do the opposite.
func New(sm domain.SessionMaterial, role domain.Role) *Session {
	s := &Session{key: sm.Key}
	switch role {
	case domain.RoleClient:
		s.send.base, s.recv.base = sm.ClientToServer, sm.ServerToClient
	default:
		s.send.base, s.recv.base = sm.ServerToClient, sm.ClientToServer
	}
	return s
}

// Seal encrypts payload as the next outbound message and returns its sequence
// number with the sealed box.
func (s *Session) Seal(payload []byte) (uint64, []byte, error) {
	if len(payload) > MaxPayload {
		return 0, nil, domain.ErrFrameTooLarge
	}
	seq := s.send.seq
	if err := s.send.advance(); err != nil {
		return 0, nil, err
	}
	return seq, secretbox.Seal(nil, payload, s.send.nonceAt(seq), &s.key), nil
}

// Open authenticates box as inbound message seq and returns the payload.
func (s *Session) Open(seq uint64, box []byte) ([]byte, error) {
	if seq != s.recv.seq {
		return nil, domain.ErrOutOfSequence
	}
	payload, ok := secretbox.Open(nil, box, s.recv.nonceAt(seq), &s.key)
	if !ok {
		return nil, domain.ErrBadFrame
	}
	if err := s.recv.advance(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Sent reports how many messages have been sealed.
func (s *Session) Sent() uint64 { return s.send.seq }

// Received reports how many messages have been opened.
func (s *Session) Received() uint64 { return s.recv.seq }

// Wipe clears the session key. The session is unusable afterwards.
func (s *Session) Wipe() {
	memzero.Zero(s.key[:])
}
