package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/internal/api"
	"github.com/matzehuels/floorplan/pkg/facility"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve exposes stored layouts over HTTP: CRUD, crop, fill, location
assignment and export. Requests to the same layout are serialized. The
server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			catalog, err := c.Config.Catalog()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := api.New(runner,
				api.WithLogger(c.Logger),
				api.WithCatalog(catalog),
				api.WithHierarchy(facility.NewMemory()),
				api.WithPadding(c.Config.Export.Padding),
				api.WithTimeout(c.Config.Server.WriteTimeout),
				api.WithReadTimeout(c.Config.Server.ReadTimeout),
			)
			printInfo("Listening on %s", StyleLink.Render(addr))
			printDetail("store: %s", c.Config.Store.Backend)
			return srv.ListenAndServe(ctx, addr, c.Config.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
