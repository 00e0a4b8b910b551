package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command for browsing a widget tree.
func (c *CLI) inspectCommand() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "inspect [scene.toml|scene.json|app.js]",
		Short: "Browse a widget tree interactively",
		Long: `Browse a widget tree interactively.

The scene is built (or the script run) against a recording bridge and its
widgets are listed as a tree. The layoutData of the selected widget is
shown both as given and as resolved against its current siblings.

Use --widget to start at a widget, by id property or as #<cid>.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: treeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], target)
		},
	}

	cmd.Flags().StringVarP(&target, "widget", "w", "", "widget to select first")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input, target string) error {
	s, err := c.load(ctx, input, nil)
	if err != nil {
		return err
	}

	m := NewTreeModel(s.client)
	if target != "" {
		w, err := s.lookup(target)
		if err != nil {
			return err
		}
		m = m.Select(w)
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
