package app

import (
	"fmt"
	"time"

	"oxy/internal/domain"
)

// Defaults for flags.
const (
	DefaultAddr             = "127.0.0.1:2600"
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultLogLevel         = "info"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Mode             string        // server or client
	Password         string        // empty is a valid password
	Addr             string        // listen (server) or dial (client) address
	MetricsAddr      string        // admin endpoint; empty disables it
	MaxConns         int           // server only; 0 is unbounded
	HandshakeTimeout time.Duration // server only; 0 disables it
	LogLevel         string
	DevLog           bool
}

// Validate checks cfg and returns the selected role.
func (c Config) Validate() (domain.Role, error) {
	role, ok := domain.ParseRole(c.Mode)
	if !ok {
		return 0, fmt.Errorf("%w: got %q", domain.ErrInvalidMode, c.Mode)
	}
	if c.Addr == "" {
		return 0, fmt.Errorf("address must not be empty")
	}
	if c.MaxConns < 0 {
		return 0, fmt.Errorf("max-conns must be >= 0, got %d", c.MaxConns)
	}
	if c.HandshakeTimeout < 0 {
		return 0, fmt.Errorf("handshake-timeout must be >= 0, got %s", c.HandshakeTimeout)
	}
	return role, nil
}
