package supervisor_test

import (
	"context"
	"crypto/rand"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"oxy/internal/conn"
	"oxy/internal/domain"
	"oxy/internal/metrics"
	"oxy/internal/services/identity"
	"oxy/internal/services/stream"
	"oxy/internal/supervisor"
)

// cachedIdentity derives each password once.
type cachedIdentity struct {
	mu   sync.Mutex
	svc  *identity.Service
	keys map[string]domain.StaticKeypair
}

func newCachedIdentity() *cachedIdentity {
	return &cachedIdentity{svc: identity.New(), keys: map[string]domain.StaticKeypair{}}
}

func (c *cachedIdentity) Derive(pw string) (domain.StaticKeypair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kp, ok := c.keys[pw]; ok {
		return kp, nil
	}
	kp, err := c.svc.Derive(pw)
	if err != nil {
		return kp, err
	}
	c.keys[pw] = kp
	return kp, nil
}

func (c *cachedIdentity) ServerPublicKey(pw string) (domain.PublicKey, error) {
	kp, err := c.Derive(pw)
	return kp.Public, err
}

func (c *cachedIdentity) Fingerprint(pw string) (domain.Fingerprint, error) {
	return c.svc.Fingerprint(pw)
}

var ids = newCachedIdentity()

type fixture struct {
	addr    string
	metrics *metrics.Metrics
	cancel  context.CancelFunc
	done    chan error
}

func startServer(t *testing.T, maxConns int) *fixture {
	t.Helper()
	kp, err := ids.Derive("correct")
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	f := &fixture{
		addr:    ln.Addr().String(),
		metrics: metrics.New(),
		cancel:  cancel,
		done:    make(chan error, 1),
	}
	srv := &supervisor.Server{
		Keys:             kp,
		NewHandler:       func() conn.Handler { return stream.Echo{} },
		Logger:           zaptest.NewLogger(t),
		Metrics:          f.metrics,
		MaxConns:         maxConns,
		HandshakeTimeout: 2 * time.Second,
	}
	go func() { f.done <- srv.Serve(ctx, ln) }()
	t.Cleanup(f.stop)
	return f
}

func (f *fixture) stop() {
	f.cancel()
	<-f.done
	f.done <- nil
}

type lines struct{ ch chan string }

func (l lines) Write(p []byte) (int, error) {
	l.ch <- string(p)
	return len(p), nil
}

type client struct {
	loop    *conn.Loop
	printer *stream.Printer
	out     lines
	errc    chan error
}

func dial(t *testing.T, addr, password string) *client {
	t.Helper()
	out := lines{ch: make(chan string, 16)}
	p := stream.NewPrinter(out)
	l, err := supervisor.Dial(context.Background(), supervisor.ClientConfig{
		Addr:        addr,
		Password:    password,
		Identity:    ids,
		Handler:     p,
		Logger:      zaptest.NewLogger(t),
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	c := &client{loop: l, printer: p, out: out, errc: make(chan error, 1)}
	go func() { c.errc <- l.Run(context.Background()) }()
	return c
}

func (c *client) roundTrip(t *testing.T, msg string) {
	t.Helper()
	<-c.printer.Ready()
	require.NoError(t, c.loop.Send([]byte(msg)))
	select {
	case got := <-c.out.ch:
		require.Equal(t, msg+"\n", got)
	case <-time.After(5 * time.Second):
		t.Fatalf("no echo for %q", msg)
	}
}

func (c *client) close(t *testing.T) {
	t.Helper()
	c.loop.Close()
	select {
	case err := <-c.errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("client loop did not stop")
	}
}

func TestCorrectPassword(t *testing.T) {
	f := startServer(t, 0)
	c := dial(t, f.addr, "correct")
	c.roundTrip(t, "hello through the tunnel")
	c.close(t)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.Handshakes.WithLabelValues(metrics.ResultAccepted)) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWrongPasswordDropped(t *testing.T) {
	f := startServer(t, 0)
	c := dial(t, f.addr, "wrong")
	<-c.printer.Ready()
	// The server may already have hung up, so the send result is not checked.
	_ = c.loop.Send([]byte("ignored"))

	select {
	case <-c.errc:
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not drop the connection")
	}
	select {
	case got := <-c.out.ch:
		t.Fatalf("unexpected reply %q", got)
	default:
	}
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.Handshakes.WithLabelValues(metrics.ResultRejected)) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

// Bad peers must not disturb a good one running at the same time.
func TestConnectionIsolation(t *testing.T) {
	f := startServer(t, 0)

	var bad []net.Conn
	for i := 0; i < 5; i++ {
		nc, err := net.Dial("tcp", f.addr)
		require.NoError(t, err)
		junk := make([]byte, 1024)
		_, err = rand.Read(junk)
		require.NoError(t, err)
		_, err = nc.Write(junk)
		require.NoError(t, err)
		bad = append(bad, nc)
	}
	// A peer that connects and never speaks.
	idle, err := net.Dial("tcp", f.addr)
	require.NoError(t, err)
	defer idle.Close()

	c := dial(t, f.addr, "correct")
	for i := 0; i < 3; i++ {
		c.roundTrip(t, "still here")
	}

	for _, nc := range bad {
		nc.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, err := nc.Read(make([]byte, 1))
		require.Error(t, err, "server should close a bad connection")
		nc.Close()
	}
	c.close(t)
}

func TestMaxConnsServesNextClient(t *testing.T) {
	f := startServer(t, 1)

	first := dial(t, f.addr, "correct")
	first.roundTrip(t, "first")
	first.close(t)

	second := dial(t, f.addr, "correct")
	second.roundTrip(t, "second")
	second.close(t)
}

func TestShutdownDrainsConnections(t *testing.T) {
	f := startServer(t, 0)
	c := dial(t, f.addr, "correct")
	c.roundTrip(t, "before shutdown")
	require.Equal(t, int64(1), f.metrics.Active())

	f.cancel()
	select {
	case err := <-f.done:
		require.NoError(t, err)
		f.done <- nil
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return")
	}
	require.Equal(t, int64(0), f.metrics.Active())

	select {
	case <-c.errc:
	case <-time.After(5 * time.Second):
		t.Fatalf("client did not see the server go away")
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	srv := &supervisor.Server{Addr: "256.0.0.1:bad"}
	require.Error(t, srv.ListenAndServe(context.Background()))
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = supervisor.Dial(context.Background(), supervisor.ClientConfig{
		Addr:     addr,
		Password: "correct",
		Identity: ids,
	})
	require.Error(t, err)
}
