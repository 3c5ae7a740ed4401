package domain

import "errors"

var (
	// ErrHandshakeRejected covers every handshake integrity failure. It never
	// says which check failed.
	ErrHandshakeRejected = errors.New("oxy: handshake rejected")
	// ErrHandshakeTimeout is returned when a server connection does not deliver
	// a handshake in time.
	ErrHandshakeTimeout = errors.New("oxy: handshake timed out")
	// ErrClosed is returned by operations on a closed connection.
	ErrClosed = errors.New("oxy: connection closed")
	// ErrNotEstablished is returned when data is sent before the handshake.
	ErrNotEstablished = errors.New("oxy: session not established")
	// ErrNonceOverflow is returned when a direction has used every nonce.
	ErrNonceOverflow = errors.New("oxy: nonce overflow")
	// ErrOutOfSequence is returned when a frame carries an unexpected sequence number.
	ErrOutOfSequence = errors.New("oxy: frame out of sequence")
	// ErrFrameTooLarge is returned for frames above the maximum payload size.
	ErrFrameTooLarge = errors.New("oxy: frame too large")
	// ErrBadFrame is returned when a frame fails authentication.
	ErrBadFrame = errors.New("oxy: frame failed authentication")
	// ErrInvalidMode is returned for a --mode other than server or client.
	ErrInvalidMode = errors.New("oxy: mode must be server or client")
)
