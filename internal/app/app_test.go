package app_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oxy/internal/app"
	"oxy/internal/domain"
	"oxy/internal/status"
)

func TestValidate(t *testing.T) {
	base := app.Config{Mode: "server", Addr: app.DefaultAddr}

	role, err := base.Validate()
	require.NoError(t, err)
	require.Equal(t, domain.RoleServer, role)

	c := base
	c.Mode = "client"
	role, err = c.Validate()
	require.NoError(t, err)
	require.Equal(t, domain.RoleClient, role)

	for _, mode := range []string{"", "mode", "Server"} {
		c := base
		c.Mode = mode
		_, err := c.Validate()
		require.True(t, errors.Is(err, domain.ErrInvalidMode), "mode %q: %v", mode, err)
	}

	c = base
	c.MaxConns = -1
	_, err = c.Validate()
	require.Error(t, err)

	c = base
	c.HandshakeTimeout = -time.Second
	_, err = c.Validate()
	require.Error(t, err)
}

func TestNewWire(t *testing.T) {
	w, err := app.NewWire(app.Config{Mode: "client", Addr: app.DefaultAddr})
	require.NoError(t, err)
	require.Equal(t, domain.RoleClient, w.Role)
	require.Nil(t, w.Admin)
	require.NotNil(t, w.Metrics)

	w, err = app.NewWire(app.Config{Mode: "server", Addr: app.DefaultAddr, MetricsAddr: "127.0.0.1:0"})
	require.NoError(t, err)
	require.NotNil(t, w.Admin)

	_, err = app.NewWire(app.Config{Mode: "server", Addr: app.DefaultAddr, LogLevel: "loud"})
	require.Error(t, err)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

type lineSink chan string

func (s lineSink) Write(p []byte) (int, error) {
	s <- string(p)
	return len(p), nil
}

func TestServerAndClient(t *testing.T) {
	addr, admin := freeAddr(t), freeAddr(t)

	srvWire, err := app.NewWire(app.Config{
		Mode:             "server",
		Password:         "correct",
		Addr:             addr,
		MetricsAddr:      admin,
		HandshakeTimeout: time.Second,
		LogLevel:         "error",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srvDone := make(chan error, 1)
	go func() { srvDone <- srvWire.RunServer(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-srvDone)
	}()

	require.Eventually(t, func() bool {
		nc, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		nc.Close()
		return true
	}, 10*time.Second, 20*time.Millisecond)

	cliWire, err := app.NewWire(app.Config{Mode: "client", Password: "correct", Addr: addr, LogLevel: "error"})
	require.NoError(t, err)

	cliCtx, cliCancel := context.WithCancel(context.Background())
	defer cliCancel()
	out := make(lineSink, 4)
	cliDone := make(chan error, 1)
	go func() {
		cliDone <- cliWire.RunClient(cliCtx, strings.NewReader("alpha\nbeta\n"), out)
	}()

	for _, want := range []string{"alpha\n", "beta\n"} {
		select {
		case got := <-out:
			require.Equal(t, want, got)
		case <-time.After(10 * time.Second):
			t.Fatalf("no reply for %q", want)
		}
	}

	h, err := status.NewClient("http://"+admin, nil).Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "server", h.Mode)
	require.Equal(t, int64(1), h.ActiveConnections)

	cliCancel()
	select {
	case err := <-cliDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("client did not stop")
	}
}
