package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"oxy/internal/status"
)

func statusCmd() *cobra.Command {
	var (
		admin   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query a running process's admin endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			h, err := status.NewClient(admin, nil).Health(ctx)
			if err != nil {
				return fmt.Errorf("query %s: %w", admin, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nmode: %s\nactive connections: %d\n",
				h.Status, h.Mode, h.ActiveConnections)
			return nil
		},
	}
	cmd.Flags().StringVar(&admin, "admin", "http://127.0.0.1:9090", "admin endpoint base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}
