package status_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oxy/internal/domain"
	"oxy/internal/metrics"
	"oxy/internal/status"
)

func TestHealthReportsActiveConnections(t *testing.T) {
	m := metrics.New()
	m.ConnOpened()
	m.ConnOpened()

	ts := httptest.NewServer(status.NewServer(domain.RoleServer, m, nil).Handler())
	defer ts.Close()

	h, err := status.NewClient(ts.URL+"/", nil).Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.Health{Status: "ok", Mode: "server", ActiveConnections: 2}, h)
}

func TestMetricsExposition(t *testing.T) {
	m := metrics.New()
	m.HandshakeDone(false, 0)

	ts := httptest.NewServer(status.NewServer(domain.RoleServer, m, nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `oxy_handshakes_total{result="rejected"} 1`), string(body))
}

func TestClientErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := status.NewClient(ts.URL, nil).Health(context.Background())
	require.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := status.NewServer(domain.RoleClient, metrics.New(), nil)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	c := status.NewClient("http://"+ln.Addr().String(), nil)
	require.Eventually(t, func() bool {
		h, err := c.Health(context.Background())
		return err == nil && h.Mode == "client"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return")
	}
}
