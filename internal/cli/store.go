package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/errors"
	fpio "github.com/matzehuels/floorplan/pkg/io"
)

// storeCommand creates the store command for the configured layout store.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Push, pull and list layouts in the layout store",
		Long: `Store moves layouts between local files and the configured store (file,
memory, redis or mongo). Layouts are addressed as <org>/<name>.`,
	}

	cmd.AddCommand(c.storePushCommand())
	cmd.AddCommand(c.storePullCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

func (c *CLI) storePushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <layout.json> <org>/<name>",
		Short: "Validate a layout file and save it to the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, name, err := parseRef(args[1])
			if err != nil {
				return err
			}
			sess, doc, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			err = sess.Validate()
			sess.Close()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.Save(cmd.Context(), org, name, doc); err != nil {
				return err
			}
			printSuccess("Pushed %s/%s", org, name)
			printDetail("%d items", len(doc.Items))
			return nil
		},
	}
}

func (c *CLI) storePullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull <org>/<name>",
		Short: "Download a layout from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, name, err := parseRef(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			doc, err := runner.Load(cmd.Context(), org, name)
			if err != nil {
				return err
			}
			if output == "" {
				output = name + ".json"
			}
			if err := fpio.ExportJSON(doc, output); err != nil {
				return err
			}
			printSuccess("Pulled %s/%s", org, name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <org>",
		Short: "List the layouts of an organisation unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			names, err := runner.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No layouts stored for %s", args[0])
				return nil
			}
			for _, n := range names {
				printKeyValue(args[0], StyleHighlight.Render(n))
			}
			return nil
		},
	}
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <org>/<name>",
		Short: "Delete a layout from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, name, err := parseRef(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.Delete(cmd.Context(), org, name); err != nil {
				return err
			}
			printSuccess("Removed %s/%s", org, name)
			return nil
		},
	}
}

// parseRef splits "<org>/<name>" and validates both parts.
func parseRef(ref string) (org, name string, err error) {
	org, name, ok := strings.Cut(ref, "/")
	if !ok {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "layout reference %q must be <org>/<name>", ref)
	}
	if err := errors.ValidateOrgUnit(org); err != nil {
		return "", "", err
	}
	if err := errors.ValidateLayoutName(name); err != nil {
		return "", "", err
	}
	return org, name, nil
}
