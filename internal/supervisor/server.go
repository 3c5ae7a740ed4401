package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"oxy/internal/conn"
	"oxy/internal/crypto"
	"oxy/internal/domain"
	"oxy/internal/metrics"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server accepts tunnel connections.
type Server struct {
	// Addr is used by ListenAndServe.
	Addr string
	Keys domain.StaticKeypair
	// NewHandler returns the handler for each accepted connection.
	NewHandler func() conn.Handler
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	// MaxConns bounds concurrent connections; zero means unbounded.
	MaxConns         int
	HandshakeTimeout time.Duration
}

// ListenAndServe listens on s.Addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := s.logger()
	if s.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.MaxConns)
	}

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("server_fp", crypto.Fingerprint(s.Keys.Public).String()),
		zap.Int("max_conns", s.MaxConns))

	var wg sync.WaitGroup
	defer wg.Wait()

	var delay time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info("listener stopped")
				return nil
			}
			if isTemporary(err) {
				delay = nextDelay(delay)
				log.Warn("accept failed; retrying", zap.Error(err), zap.Duration("delay", delay))
				select {
				case <-time.After(delay):
					continue
				case <-ctx.Done():
					return nil
				}
			}
			return fmt.Errorf("accept: %w", err)
		}
		delay = 0

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serveConn(ctx, nc)
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	var h conn.Handler
	if s.NewHandler != nil {
		h = s.NewHandler()
	}
	l := conn.New(nc, conn.Config{
		Role:             domain.RoleServer,
		ServerPrivate:    &s.Keys.Private,
		Handler:          h,
		Logger:           s.logger(),
		Metrics:          s.Metrics,
		HandshakeTimeout: s.HandshakeTimeout,
	})
	err := l.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		l.Logger().Debug("connection closed")
	default:
		l.Logger().Warn("connection failed", zap.Error(err))
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func isTemporary(err error) bool {
	var te interface{ Temporary() bool }
	return errors.As(err, &te) && te.Temporary()
}

func nextDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	if d *= 2; d > maxAcceptDelay {
		return maxAcceptDelay
	}
	return d
}
