package commands

import (
	"context"

	"github.com/spf13/cobra"

	"oxy/internal/app"
)

var cfg app.Config

// Execute runs the CLI with ctx, which is cancelled on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cfg = app.Config{}
	root := &cobra.Command{
		Use:          "oxy --mode server|client [--password PW]",
		Short:        "Password-keyed encrypted TCP tunnel",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runRole,
	}

	root.PersistentFlags().StringVar(&cfg.Password, "password", "", "shared password (empty is allowed)")

	f := root.Flags()
	f.StringVar(&cfg.Mode, "mode", "", "server or client")
	f.StringVar(&cfg.Addr, "addr", app.DefaultAddr, "listen (server) or connect (client) address")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "admin endpoint address serving /metrics and /healthz (disabled if empty)")
	f.IntVar(&cfg.MaxConns, "max-conns", 0, "maximum concurrent server connections (0 = unbounded)")
	f.DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", app.DefaultHandshakeTimeout, "drop server connections without a handshake after this long (0 disables)")
	f.StringVar(&cfg.LogLevel, "log-level", app.DefaultLogLevel, "debug, info, warn or error")
	f.BoolVar(&cfg.DevLog, "dev-log", false, "human-readable console logs")
	_ = root.MarkFlagRequired("mode")

	root.AddCommand(fingerprintCmd(), statusCmd())
	return root
}
