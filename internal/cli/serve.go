package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tabbridge/pkg/devtools"
)

// serveCommand creates the serve command for the devtools HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [scene.toml|scene.json|app.js]",
		Short: "Serve a widget tree over the devtools HTTP API",
		Long: `Serve a widget tree over the devtools HTTP API.

The scene is built (or the script run) against a recording bridge and the
resulting widgets, their layout and the recorded bridge operations are
served as JSON until the command is interrupted:

  GET /widgets
  GET /widgets/{id}
  GET /widgets/{id}/layout
  GET /operations
  GET /graph

The listen address defaults to the config's devtools.addr.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: treeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	s, err := c.load(ctx, input, nil)
	if err != nil {
		return err
	}
	if addr == "" {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		addr = cfg.Devtools.Addr
	}

	srv := devtools.New(s.client, s.recorder, loggerFromContext(ctx))
	printSuccess("Serving %s", input)
	printKeyValue("Widgets", StyleLink.Render("http://"+addr+"/widgets"))
	printKeyValue("Operations", StyleLink.Render("http://"+addr+"/operations"))
	printDetail("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx, addr)
}
