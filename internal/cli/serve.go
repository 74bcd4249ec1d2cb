package cli

import (
	"github.com/spf13/cobra"

	"github.com/diagramlab/diaglint/internal/server"
	"github.com/diagramlab/diaglint/pkg/config"
)

// newServeCmd creates the serve command running the validation HTTP API.
func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP API",
		Long:  `Serve exposes document validation over HTTP for editor integrations and CI. Rendering stays CLI-side; the API only validates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := loggerFromContext(cmd.Context())
			printInfo("Listening on %s", cfg.Server.Addr)
			return server.New(logger).ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8440)")

	return cmd
}
