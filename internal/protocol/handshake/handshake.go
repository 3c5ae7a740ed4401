package handshake

import (
	"fmt"
	"io"

	"oxy/internal/crypto"
	"oxy/internal/domain"
	"oxy/internal/util/memzero"
)

const (
	// MessageSize is the fixed length of every handshake message.
	MessageSize = 1024
	// MaxPadding bounds the random front padding, exclusive.
	MaxPadding = 100

	headerSize = domain.NonceSize + domain.KeySize
	innerSize  = domain.KeySize + 2*domain.NonceSize
	sealedSize = innerSize + crypto.TagSize
)

// Message is one encoded handshake.
type Message [MessageSize]byte

// Build lays out a handshake for serverPub and returns the session material
// sealed inside it. Randomness comes from rand.
func Build(rand io.Reader, serverPub domain.PublicKey) (*Message, domain.SessionMaterial, error) {
	var msg Message
	if err := crypto.Fill(rand, msg[:]); err != nil {
		return nil, domain.SessionMaterial{}, err
	}

	eph, err := crypto.GenerateEphemeral(rand)
	if err != nil {
		return nil, domain.SessionMaterial{}, err
	}
	defer memzero.Zero(eph.Private.Slice())

	var nonce domain.Nonce
	if err := crypto.Fill(rand, nonce[:]); err != nil {
		return nil, domain.SessionMaterial{}, err
	}

	sm, err := newMaterial(rand)
	if err != nil {
		return nil, domain.SessionMaterial{}, err
	}

	pad, err := crypto.Intn(rand, MaxPadding)
	if err != nil {
		return nil, domain.SessionMaterial{}, err
	}

	inner := encodeMaterial(&sm)
	sealed := crypto.SealDetached(inner, &nonce, &serverPub, &eph.Private)
	memzero.Zero(inner)

	copy(msg[:domain.NonceSize], nonce[:])
	copy(msg[domain.NonceSize:headerSize], eph.Public[:])
	copy(msg[headerSize+pad:], sealed)
	return &msg, sm, nil
}

// Write builds a handshake for serverPub and writes it to w in full.
func Write(w io.Writer, rand io.Reader, serverPub domain.PublicKey) (domain.SessionMaterial, error) {
	msg, sm, err := Build(rand, serverPub)
	if err != nil {
		return domain.SessionMaterial{}, err
	}
	if _, err := w.Write(msg[:]); err != nil {
		return domain.SessionMaterial{}, fmt.Errorf("write handshake: %w", err)
	}
	return sm, nil
}

// Open verifies a received handshake with the server's private key and
// returns the session material it carries.
func Open(msg []byte, serverPriv *domain.PrivateKey) (domain.SessionMaterial, error) {
	if len(msg) != MessageSize {
		return domain.SessionMaterial{}, domain.ErrHandshakeRejected
	}

	var nonce domain.Nonce
	var ephPub domain.PublicKey
	copy(nonce[:], msg[:domain.NonceSize])
	copy(ephPub[:], msg[domain.NonceSize:headerSize])

	shared := crypto.Precompute(&ephPub, serverPriv)
	defer memzero.Zero(shared[:])

	for pad := 0; pad < MaxPadding; pad++ {
		off := headerSize + pad
		inner, ok := crypto.OpenDetached(msg[off:off+sealedSize], &nonce, &shared)
		if !ok {
			continue
		}
		sm := decodeMaterial(inner)
		memzero.Zero(inner)
		if !sm.Distinct() {
			return domain.SessionMaterial{}, domain.ErrHandshakeRejected
		}
		return sm, nil
	}
	return domain.SessionMaterial{}, domain.ErrHandshakeRejected
}

// Read consumes exactly one handshake from r and opens it.
func Read(r io.Reader, serverPriv *domain.PrivateKey) (domain.SessionMaterial, error) {
	var msg Message
	if _, err := io.ReadFull(r, msg[:]); err != nil {
		return domain.SessionMaterial{}, fmt.Errorf("read handshake: %w", err)
	}
	return Open(msg[:], serverPriv)
}

func newMaterial(rand io.Reader) (domain.SessionMaterial, error) {
	var sm domain.SessionMaterial
	if err := crypto.Fill(rand, sm.Key[:]); err != nil {
		return sm, err
	}
	for {
		if err := crypto.Fill(rand, sm.ClientToServer[:]); err != nil {
			return sm, err
		}
		if err := crypto.Fill(rand, sm.ServerToClient[:]); err != nil {
			return sm, err
		}
		if sm.Distinct() {
			return sm, nil
		}
	}
}

func encodeMaterial(sm *domain.SessionMaterial) []byte {
	out := make([]byte, 0, innerSize)
	out = append(out, sm.Key[:]...)
	out = append(out, sm.ClientToServer[:]...)
	out = append(out, sm.ServerToClient[:]...)
	return out
}

func decodeMaterial(b []byte) domain.SessionMaterial {
	var sm domain.SessionMaterial
	n := copy(sm.Key[:], b)
	n += copy(sm.ClientToServer[:], b[n:])
	copy(sm.ServerToClient[:], b[n:])
	return sm
}
