package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/waypoint/pkg/nav"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand   = lipgloss.NewStyle().Foreground(colorBlue)
	styleNavigator = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	styleFocused   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDrawer    = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconFocus   = "▸"
)

// =============================================================================
// Status Output
// =============================================================================

// statusOut receives status lines. Command data (states, DOT) goes to the
// CLI's output instead so it can be piped.
var statusOut io.Writer = os.Stderr

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(statusOut, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Tree Rendering
// =============================================================================

// renderTree draws state as an indented tree. Focused routes are marked and
// highlighted down to the focused leaf.
func renderTree(state *nav.State) string {
	if state == nil {
		return StyleDim.Render("(no navigation state)")
	}
	var b strings.Builder
	writeNavigator(&b, state, "", true)
	return strings.TrimRight(b.String(), "\n")
}

func writeNavigator(b *strings.Builder, s *nav.State, indent string, focused bool) {
	head := styleNavigator.Render(s.Type)
	if s.Key != "" {
		head += " " + StyleDim.Render(s.Key)
	}
	if s.DrawerOpen() {
		head += " " + styleDrawer.Render("[drawer open]")
	}
	b.WriteString(head + "\n")

	for i, r := range s.Routes {
		last := i == len(s.Routes)-1
		branch, child := "├─ ", "│  "
		if last {
			branch, child = "└─ ", "   "
		}
		active := focused && i == s.Index

		line := r.Name
		if active {
			line = styleFocused.Render(iconFocus + " " + r.Name)
		}
		if r.Key != "" {
			line += " " + StyleDim.Render(r.Key)
		}
		if len(r.Params) > 0 {
			line += " " + StyleDim.Render(formatParams(r.Params))
		}
		b.WriteString(indent + StyleDim.Render(branch) + line + "\n")

		if r.State != nil {
			b.WriteString(indent + StyleDim.Render(child) + StyleDim.Render("└─ "))
			writeNavigator(b, r.State, indent+child+"   ", active)
		}
	}
}

func formatParams(p nav.Params) string {
	parts := make([]string, 0, len(p))
	for _, k := range slices.Sorted(maps.Keys(p)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, p[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
