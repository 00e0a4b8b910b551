package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tabbridge/pkg/errors"
)

// runCommand creates the run command for executing a JavaScript application.
func (c *CLI) runCommand() *cobra.Command {
	var (
		trace bool
		ops   bool
		op    string
	)

	cmd := &cobra.Command{
		Use:   "run [app.js]",
		Short: "Run a JavaScript application against a recording bridge",
		Long: `Run a JavaScript application against a recording bridge.

The script sees the global tabris object and console. Widgets it creates are
recorded instead of being sent to a device; pending layout is flushed after
the script returns, the way a frame would.

With --trace every bridge operation is written to stdout as a JSON line in
the stream protocol. With --ops the recorded operations are printed as a
table.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: fileCompletion("js"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isScript(args[0]) {
				return errors.New(errors.ErrCodeInvalidInput, "%s is not a .js file", args[0])
			}
			var w io.Writer
			if trace {
				w = cmd.OutOrStdout()
			}
			return c.runScript(cmd.Context(), args[0], w, ops, op)
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "write bridge operations to stdout as JSON lines")
	cmd.Flags().BoolVar(&ops, "ops", false, "print recorded operations as a table")
	cmd.Flags().StringVar(&op, "op", "", "only print operations of this kind (create, set, ...)")

	return cmd
}

func (c *CLI) runScript(ctx context.Context, path string, trace io.Writer, showOps bool, op string) error {
	s, err := c.load(ctx, path, trace)
	if err != nil {
		printError("Script failed")
		return err
	}
	if trace != nil {
		return nil
	}

	if showOps {
		recorded := s.recorder.Operations()
		if op != "" {
			recorded = s.recorder.Filter(op)
		}
		fmt.Println(renderOperations(recorded))
	}

	printSuccess("Script finished")
	printStats(count(s.client.Registry().Len(), "widgets"), count(s.recorder.Len(), "operations"), count(s.flushes, "flushes"))
	if !showOps {
		printNextStep("Show operations", appName+" run --ops "+path)
	}
	return nil
}
