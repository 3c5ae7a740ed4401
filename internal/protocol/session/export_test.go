package session

// SetCounters positions both directions at the given sequence numbers.
func (s *Session) SetCounters(send, recv uint64) {
	s.send.seq, s.recv.seq = send, recv
}

// NonceAt exposes the per-message nonce of the send direction.
func (s *Session) NonceAt(seq uint64) [24]byte { return *s.send.nonceAt(seq) }
