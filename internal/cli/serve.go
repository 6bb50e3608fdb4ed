package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/discman/internal/api"
	"github.com/roach88/discman/internal/live"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API with live list streams",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			hub := live.NewHub(a.store, live.WithLogger(a.logger))
			defer hub.Close()

			go func() {
				if err := a.store.WatchExternal(ctx, interval); err != nil {
					a.logger.Error("external change polling stopped", "error", err)
				}
			}()

			srv := api.NewServer(rootOpts.Config, a.store, hub, a.logger)
			if err := srv.Run(ctx); err != nil {
				return WrapExitError(ExitFailure, "server error", err)
			}
			a.logger.Info("server stopped gracefully")
			return nil
		}),
	}

	cmd.Flags().String("listen", ":8080", "address to listen on")
	cmd.Flags().StringSlice("cors-origins", []string{"*"}, "allowed CORS origins")
	cmd.Flags().DurationVar(&interval, "poll", time.Second, "how often to check for changes from other processes")

	return cmd
}
