package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/refgraph"
)

// Graph output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph command for drawing layout references.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		output string
		opts   refgraph.Options
	)

	cmd := &cobra.Command{
		Use:   "graph [scene.toml|scene.json|app.js]",
		Short: "Draw the layout references of a scene",
		Long: `Draw the layout references of a scene.

Widgets become nodes, parent/child relations grey edges and layout
references dashed blue edges labelled with the attribute. References that
resolve to no sibling point at a red "unresolved" node.

DOT output is written to stdout unless --output is given. SVG is rendered
with Graphviz and written next to the input by default.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: treeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q: use dot or svg", format)
			}
			return c.runGraph(cmd.Context(), cmd, args[0], format, output, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot (default), svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show layoutData in node labels")
	cmd.Flags().BoolVar(&opts.HideTree, "refs-only", false, "omit parent/child edges")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, cmd *cobra.Command, input, format, output string, opts refgraph.Options) error {
	scene, err := c.load(ctx, input, nil)
	if err != nil {
		return err
	}
	dot := refgraph.ToDOT(scene.client.Registry(), opts)

	if format == formatDOT {
		if output == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
			return err
		}
		return writeOutput(output, []byte(dot))
	}

	sp := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering SVG")
	sp.Start()
	svg, err := refgraph.RenderSVG(ctx, dot)
	if err != nil {
		sp.StopWithError("Rendering failed")
		return err
	}
	sp.Stop()

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	if err := writeOutput(output, svg); err != nil {
		return err
	}

	edges := refgraph.References(scene.client.Registry())
	printSuccess("Graph rendered")
	printFile(output)
	printStats(count(scene.client.Registry().Len(), "widgets"), count(len(edges), "references"))
	return nil
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
