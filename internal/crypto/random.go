package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Fill reads len(b) random bytes from r into b.
func Fill(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return fmt.Errorf("read random bytes: %w", err)
	}
	return nil
}

// Intn returns a uniform integer in [0, n) drawn from r.
func Intn(r io.Reader, n int) (int, error) {
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("draw random integer: %w", err)
	}
	return int(v.Int64()), nil
}
