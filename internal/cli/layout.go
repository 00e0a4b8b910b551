package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tabbridge/pkg/errors"
	pkgio "github.com/matzehuels/tabbridge/pkg/io"
	"github.com/matzehuels/tabbridge/pkg/layout"
)

// attrsSource names where a layout attribute bag comes from: a file argument
// or an inline JSON string.
type attrsSource struct {
	inline string
}

func (s *attrsSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.inline, "data", "d", "", `inline layoutData as JSON, e.g. '{"left":"#foo 8"}'`)
}

func (s *attrsSource) read(args []string) (layout.Attrs, error) {
	switch {
	case s.inline != "" && len(args) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "pass either a file or --data, not both")
	case s.inline != "":
		return pkgio.ParseAttrs(s.inline)
	case len(args) == 1:
		return pkgio.ImportAttrs(args[0])
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layoutData given: pass a file or --data")
	}
}

// =============================================================================
// check
// =============================================================================

// checkCommand creates the check command for reporting attribute conflicts.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		src    attrsSource
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check [layout.json|layout.toml]",
		Short: "Report conflicting layoutData attributes",
		Long: `Report conflicting layoutData attributes.

Attributes that are overridden by others (width next to left and right,
top next to baseline, ...) are listed as warnings and the attribute set that
remains is printed. The input is also encoded so invalid values are reported.

With --strict, any conflict makes the command fail.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: layoutFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := src.read(args)
			if err != nil {
				return err
			}
			return c.runCheck(cmd.OutOrStdout(), attrs, strict)
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when attributes conflict")

	return cmd
}

func (c *CLI) runCheck(w io.Writer, attrs layout.Attrs, strict bool) error {
	var warnings []string
	checked := layout.CheckConsistency(attrs, func(msg string) {
		warnings = append(warnings, msg)
	})
	if _, err := layout.Encode(checked); err != nil {
		printError("%s", err)
		return err
	}

	for _, msg := range warnings {
		printWarning("%s", msg)
	}
	if err := pkgio.WriteJSON(w, pkgio.Display(checked)); err != nil {
		return err
	}

	if len(warnings) == 0 {
		printSuccess("layoutData is consistent")
		return nil
	}
	if strict {
		return errors.New(errors.ErrCodeInvalidLayout, "%d conflicting attributes", len(warnings))
	}
	return nil
}

// =============================================================================
// encode
// =============================================================================

// encodeCommand creates the encode command for converting layoutData to its
// canonical form.
func (c *CLI) encodeCommand() *cobra.Command {
	var (
		src     attrsSource
		noCheck bool
	)

	cmd := &cobra.Command{
		Use:   "encode [layout.json|layout.toml]",
		Short: "Convert layoutData to canonical form",
		Long: `Convert layoutData to canonical form.

Every attribute is validated; the first invalid one is reported with the
same message a running application would see. Edge attributes become
[percentage, offset] or [selector, offset] pairs, baseline stays a selector.

Conflicting attributes are removed first unless --no-check is given.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: layoutFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := src.read(args)
			if err != nil {
				return err
			}
			return c.runEncode(cmd.OutOrStdout(), attrs, !noCheck)
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "skip the consistency check")

	return cmd
}

func (c *CLI) runEncode(w io.Writer, attrs layout.Attrs, check bool) error {
	if check {
		attrs = layout.CheckConsistency(attrs, func(msg string) {
			c.Logger.Warn(msg)
		})
	}
	data, err := layout.Encode(attrs)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return pkgio.WriteJSON(w, pkgio.Canonical(data))
}

// =============================================================================
// decode
// =============================================================================

// decodeCommand creates the decode command for converting layoutData to its
// shortest human-friendly form.
func (c *CLI) decodeCommand() *cobra.Command {
	var src attrsSource

	cmd := &cobra.Command{
		Use:   "decode [layout.json|layout.toml]",
		Short: "Convert layoutData to its human-friendly form",
		Long: `Convert layoutData to its human-friendly form.

The input may be canonical or not; it is encoded first, then decoded so
pairs like [30, 0] print as "30%" and ["#foo", 8] as "#foo +8".`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: layoutFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := src.read(args)
			if err != nil {
				return err
			}
			return c.runDecode(cmd.OutOrStdout(), attrs)
		},
	}

	src.register(cmd)

	return cmd
}

func (c *CLI) runDecode(w io.Writer, attrs layout.Attrs) error {
	data, err := layout.Encode(attrs)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return pkgio.WriteJSON(w, pkgio.Display(layout.Decode(data)))
}
