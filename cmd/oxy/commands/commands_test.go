package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"oxy/internal/domain"
	"oxy/internal/metrics"
	"oxy/internal/status"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFingerprintCommand(t *testing.T) {
	a, err := execute(t, "fingerprint", "--password", "correct")
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	b, err := execute(t, "fingerprint", "--password", "wrong")
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if !strings.HasPrefix(a, "Fingerprint: ") || a == b {
		t.Fatalf("unexpected fingerprints %q and %q", a, b)
	}
}

func TestModeRequired(t *testing.T) {
	if _, err := execute(t); err == nil {
		t.Fatalf("expected error without --mode")
	}
}

func TestInvalidMode(t *testing.T) {
	_, err := execute(t, "--mode", "mode")
	if err == nil || !strings.Contains(err.Error(), domain.ErrInvalidMode.Error()) {
		t.Fatalf("expected invalid mode error, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	m := metrics.New()
	m.ConnOpened()
	ts := httptest.NewServer(status.NewServer(domain.RoleServer, m, nil).Handler())
	defer ts.Close()

	out, err := execute(t, "status", "--admin", ts.URL)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"status: ok", "mode: server", "active connections: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}
