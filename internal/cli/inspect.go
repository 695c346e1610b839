package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// inspectCommand creates the inspect command. Without a terminal (or with
// --plain) it prints a summary instead of starting the browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:               "inspect <layout.json>",
		Short:             "Browse the items of a layout",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: layoutFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := fpio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if plain {
				printSummary(doc)
				return nil
			}
			_, err = tea.NewProgram(NewItemListModel(doc.Name, doc.Items), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a summary instead of the interactive browser")
	return cmd
}

// printSummary prints item counts per type and the canvas size.
func printSummary(doc *fpio.Document) {
	fmt.Println(StyleTitle.Render(doc.Name))
	printKeyValue("Items", fmt.Sprintf("%d", len(doc.Items)))
	printKeyValue("Canvas", fmt.Sprintf("%d×%d", doc.Metadata.CroppedDimensions.Width, doc.Metadata.CroppedDimensions.Height))
	if doc.Metadata.OrgUnit != "" {
		printKeyValue("Org", doc.Metadata.OrgUnit)
	}

	counts := map[layout.ItemType]int{}
	var order []layout.ItemType
	assigned := 0
	for _, it := range doc.Items {
		if counts[it.Type] == 0 {
			order = append(order, it.Type)
		}
		counts[it.Type]++
		assigned += len(it.Identifiers())
	}
	printKeyValue("Locations", fmt.Sprintf("%d", assigned))

	parts := make([]string, len(order))
	for i, t := range order {
		parts[i] = fmt.Sprintf("%d %s", counts[t], t)
	}
	if len(parts) > 0 {
		printDetail("%s", strings.Join(parts, " · "))
	}
}
