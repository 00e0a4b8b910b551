package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tabbridge/pkg/bridge"
)

// Palette, by role.
var (
	colorAccent = lipgloss.Color("36")  // titles, numbers, selection
	colorOK     = lipgloss.Color("35")  // success, operation names
	colorWarn   = lipgloss.Color("220") // consistency warnings
	colorFail   = lipgloss.Color("167") // errors
	colorRef    = lipgloss.Color("75")  // links and commands
	colorText   = lipgloss.Color("255") // values
	colorLabel  = lipgloss.Color("245") // table headers, keys
	colorMuted  = lipgloss.Color("240") // borders, details
)

// Styles shared by the commands and the tree browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorRef).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleOp          = lipgloss.NewStyle().Foreground(colorOK)
	styleCommand     = lipgloss.NewStyle().Foreground(colorRef)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// Status line markers.
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markFile    = StyleDim.Render("→")
)

// =============================================================================
// Status output
// =============================================================================

// Status lines go to stdout; logs go to the CLI's logger.

func status(mark, text string) {
	fmt.Println(mark + " " + text)
}

func printSuccess(format string, args ...any) {
	status(markSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status(markError, fmt.Sprintf(format, args...))
}

// printWarning prints a consistency or validation warning.
func printWarning(format string, args ...any) {
	status(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a path written by the command.
func printFile(path string) {
	fmt.Println("  " + markFile + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Width(12).Render(key) + " " + StyleValue.Render(value))
}

// printStats prints non-empty parts on one line, e.g. "3 widgets · 2 references".
func printStats(parts ...string) {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(kept, " · ")))
}

// count formats n with its unit, or "" for zero.
func count(n int, unit string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// printNextStep suggests a follow-up command after a blank line.
func printNextStep(description, cmd string) {
	fmt.Println()
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Operations Table
// =============================================================================

// renderOperations formats bridge operations as a table.
func renderOperations(ops []bridge.Operation) string {
	rows := make([][]string, len(ops))
	for i, op := range ops {
		rows[i] = []string{strconv.Itoa(i + 1), op.Op, formatID(op.ID), operationDetail(op)}
	}

	headerStyle := styleLabel.Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "Op", "Widget", "Detail").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return styleOp
			case col == 2:
				return StyleNumber
			default:
				return StyleValue
			}
		})
	return t.Render()
}

func operationDetail(op bridge.Operation) string {
	var parts []string
	if op.Type != "" {
		parts = append(parts, op.Type)
	}
	if op.Name != "" {
		parts = append(parts, op.Name)
	}
	if op.Enabled != nil {
		parts = append(parts, strconv.FormatBool(*op.Enabled))
	}
	if len(op.Props) > 0 {
		b, err := json.Marshal(op.Props)
		if err == nil {
			parts = append(parts, string(b))
		}
	}
	return strings.Join(parts, " ")
}

func formatID(id int64) string {
	if id == 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}
