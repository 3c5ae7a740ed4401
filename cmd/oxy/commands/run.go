package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"oxy/internal/app"
	"oxy/internal/domain"
)

// runRole builds the wire for the selected mode and runs it until the
// connection or the process ends.
func runRole(cmd *cobra.Command, _ []string) error {
	w, err := app.NewWire(cfg)
	if err != nil {
		return err
	}
	defer w.Logger.Sync()

	ctx := cmd.Context()
	switch w.Role {
	case domain.RoleServer:
		err = w.RunServer(ctx)
	default:
		err = w.RunClient(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if err != nil {
		w.Logger.Error("exiting", zap.Error(err))
	}
	return err
}
