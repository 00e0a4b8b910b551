package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/tabbridge/pkg/io"
	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// =============================================================================
// resolve
// =============================================================================

// resolvedEntry is one widget's resolved layout in resolve output.
type resolvedEntry struct {
	CID        int64           `json:"cid"`
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	LayoutData layout.Resolved `json:"layoutData"`
}

// resolveCommand creates the resolve command for printing the wire form of
// a scene's layout.
func (c *CLI) resolveCommand() *cobra.Command {
	var target, output string

	cmd := &cobra.Command{
		Use:   "resolve [scene.toml|scene.json|app.js]",
		Short: "Resolve the layout references of a scene",
		Long: `Resolve the layout references of a scene.

The scene's widgets are created against a recording bridge (or the script
is run), the layout queue is flushed, and every widget's layoutData is
printed as sent to the native side: selectors replaced by widget ids,
unresolved references as 0.

Use --widget to print a single widget, by id property or as #<cid>.
Use --output to write the JSON to a file instead.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: treeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), args[0], target, output)
		},
	}

	cmd.Flags().StringVarP(&target, "widget", "w", "", "only resolve this widget")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to this file")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, w io.Writer, path, target, output string) error {
	scene, err := c.load(ctx, path, nil)
	if err != nil {
		return err
	}

	var result any
	if target != "" {
		wdg, err := scene.lookup(target)
		if err != nil {
			return err
		}
		result = entryOf(wdg)
	} else {
		var entries []resolvedEntry
		scene.client.Registry().Walk(func(wdg *widget.Widget) bool {
			if len(wdg.Layout()) > 0 {
				entries = append(entries, entryOf(wdg))
			}
			return true
		})
		result = entries
	}

	if output == "" {
		return pkgio.WriteJSON(w, result)
	}
	if err := pkgio.ExportJSON(output, result); err != nil {
		return err
	}
	printSuccess("Resolved layout written")
	printFile(output)
	return nil
}

func entryOf(w *widget.Widget) resolvedEntry {
	return resolvedEntry{
		CID:        w.CID(),
		Type:       w.Type(),
		ID:         w.ID(),
		LayoutData: w.ResolvedLayout(),
	}
}
