package supervisor

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"oxy/internal/conn"
	"oxy/internal/domain"
	"oxy/internal/metrics"
)

// ClientConfig describes one outbound connection.
type ClientConfig struct {
	Addr     string
	Password string
	Identity domain.IdentityService
	Handler  conn.Handler
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	// DialTimeout bounds the TCP connect; zero means no limit beyond ctx.
	DialTimeout time.Duration
}

// Dial connects to cfg.Addr, sends the handshake and returns an Established
// loop ready for Run. The server public key is derived from the password on
// every call.
func Dial(ctx context.Context, cfg ClientConfig) (*conn.Loop, error) {
	pub, err := cfg.Identity.ServerPublicKey(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("derive server key: %w", err)
	}

	d := net.Dialer{Timeout: cfg.DialTimeout}
	nc, err := d.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Addr, err)
	}

	l := conn.New(nc, conn.Config{
		Role:         domain.RoleClient,
		ServerPublic: pub,
		Handler:      cfg.Handler,
		Logger:       cfg.Logger,
		Metrics:      cfg.Metrics,
	})
	if err := l.Init(); err != nil {
		return nil, err
	}
	return l, nil
}
