package session

import (
	"encoding/binary"
	"fmt"
	"io"

	"oxy/internal/domain"
)

const (
	// MaxPayload is the largest plaintext a single frame may carry.
	MaxPayload = 1 << 20

	lengthSize = 4
	seqSize    = 8

	// HeaderSize is the length prefix plus sequence number.
	HeaderSize = lengthSize + seqSize

	minBody = seqSize + Overhead
	maxBody = seqSize + MaxPayload + Overhead
)

// AppendFrame seals payload and appends the framed result to dst:
//
//	[4B big-endian length L][8B big-endian sequence][secretbox]
//
// where L covers the sequence and the box.
func (s *Session) AppendFrame(dst, payload []byte) ([]byte, error) {
	seq, box, err := s.Seal(payload)
	if err != nil {
		return dst, err
	}
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:lengthSize], uint32(seqSize+len(box)))
	binary.BigEndian.PutUint64(hdr[lengthSize:], seq)
	dst = append(dst, hdr[:]...)
	return append(dst, box...), nil
}

// NextFrame parses and opens the first frame in buf. It returns the payload
// and the number of bytes consumed; n == 0 with a nil error means buf does not
// hold a complete frame yet.
func (s *Session) NextFrame(buf []byte) (payload []byte, n int, err error) {
	if len(buf) < lengthSize {
		return nil, 0, nil
	}
	body, err := bodyLen(buf)
	if err != nil {
		return nil, 0, err
	}
	if len(buf) < lengthSize+body {
		return nil, 0, nil
	}
	seq := binary.BigEndian.Uint64(buf[lengthSize:HeaderSize])
	payload, err = s.Open(seq, buf[HeaderSize:lengthSize+body])
	if err != nil {
		return nil, 0, err
	}
	return payload, lengthSize + body, nil
}

// ReadFrame reads one complete frame from r and opens it.
func (s *Session) ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [lengthSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	body, err := bodyLen(lenBuf[:])
	if err != nil {
		return nil, err
	}
	frame := make([]byte, lengthSize+body)
	copy(frame, lenBuf[:])
	if _, err := io.ReadFull(r, frame[lengthSize:]); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	payload, _, err := s.NextFrame(frame)
	return payload, err
}

func bodyLen(buf []byte) (int, error) {
	l := binary.BigEndian.Uint32(buf[:lengthSize])
	switch {
	case l > maxBody:
		return 0, domain.ErrFrameTooLarge
	case l < minBody:
		return 0, domain.ErrBadFrame
	}
	return int(l), nil
}
