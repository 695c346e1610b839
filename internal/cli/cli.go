// Package cli implements the floorplan command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/internal/config"
	"github.com/matzehuels/floorplan/pkg/buildinfo"
	"github.com/matzehuels/floorplan/pkg/designer"
	"github.com/matzehuels/floorplan/pkg/facility"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and built-in
// settings. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Floorplan designs warehouse layouts",
		Long:          `Floorplan builds warehouse floor plans and exports them as cropped SVG, PNG, PDF, JSON or CSV.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/floorplan/config.toml)")

	root.AddCommand(c.cropCommand())
	root.AddCommand(c.fillCommand())
	root.AddCommand(c.autofillCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.assignCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.hierarchyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner on the configured store. With noStore
// nothing is persisted or cached.
func (c *CLI) newRunner(ctx context.Context, noStore bool) (*pipeline.Runner, error) {
	if noStore {
		return pipeline.NewRunner(nil, nil, c.Logger), nil
	}
	store, err := c.Config.Store.Open(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened store", "backend", c.Config.Store.Backend)
	return pipeline.NewRunner(store, c.Config.Store.Keyer(), c.Logger), nil
}

// =============================================================================
// Sessions
// =============================================================================

// openSession loads the layout file at path into a new designer session.
// The session's facility hierarchy is built from the layout, so zone item
// ids work as facility zone ids.
func (c *CLI) openSession(ctx context.Context, path string) (*designer.Session, *fpio.Document, error) {
	doc, err := fpio.ImportJSON(path)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := c.Config.Catalog()
	if err != nil {
		return nil, nil, err
	}
	hierarchy, err := facility.FromLayout(ctx, doc.Name, doc.Items)
	if err != nil {
		return nil, nil, err
	}
	sess := designer.New(
		designer.WithLogger(c.Logger),
		designer.WithCatalog(catalog),
		designer.WithHierarchy(hierarchy),
		designer.WithUndoDepth(c.Config.Designer.UndoDepth),
	)
	if err := sess.Open(doc.Items); err != nil {
		return nil, nil, err
	}
	return sess, doc, nil
}

// saveSession writes the session's layout to path, cropped with the
// configured padding. Metadata of prev is carried over.
func (c *CLI) saveSession(sess *designer.Session, prev *fpio.Document, path string) (*fpio.Document, error) {
	doc := sess.Save(prev.Name, c.Config.Export.Padding, fpio.Options{
		OrgUnit: prev.Metadata.OrgUnit,
		OrgMap:  prev.Metadata.OrgMap,
	})
	doc.Metadata.Extra = prev.Metadata.Extra
	if err := fpio.ExportJSON(doc, path); err != nil {
		return nil, err
	}
	return doc, nil
}

// outputPath returns out, or in when out is empty.
func outputPath(in, out string) string {
	if out == "" {
		return in
	}
	return out
}
