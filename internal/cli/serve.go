package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/qrmosaic/internal/server"
)

// serveCommand creates the serve command running the HTTP API and web form.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the QRMosaic HTTP service",
		Long: `Serve starts an HTTP server exposing the encode/decode pipeline as a JSON
API (POST /api/encode, POST /api/decode) and a minimal web form at /.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()
			if configPath != "" {
				loaded, err := server.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			srv := server.New(cfg, c.newRunner(cfg.ModuleSize), c.Logger)

			printInfo("serving on %s", cfg.Addr)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultConfig().Addr, "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")

	return cmd
}
