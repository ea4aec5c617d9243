package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Cyan marks the tool itself, green a finished or cached layout,
// amber a layout that stopped before converging.
var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)

	styleConverged = lipgloss.NewStyle().Foreground(colorGreen)
	styleCapped    = lipgloss.NewStyle().Foreground(colorAmber)
	styleCached    = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// console writes human-oriented status lines. Machine-readable output
// (layouts written to "-", completion scripts) never goes through it.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) *console {
	if w == nil {
		w = os.Stdout
	}
	return &console{w: w}
}

func (c *console) line(s string) { fmt.Fprintln(c.w, s) }

func (c *console) success(format string, args ...any) {
	c.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (c *console) failure(format string, args ...any) {
	c.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (c *console) warn(format string, args ...any) {
	c.line(StyleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func (c *console) info(format string, args ...any) {
	c.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (c *console) detail(format string, args ...any) {
	c.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints the path a result was written to.
func (c *console) file(path string) {
	c.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (c *console) keyValue(key, value string) {
	c.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func (c *console) nextStep(description, cmd string) {
	c.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func (c *console) blank() { c.line("") }

// layoutStats summarizes a layout run for display.
type layoutStats struct {
	Nodes       int
	Edges       int
	Components  int
	Iterations  int
	Converged   bool
	Energy      float64
	MaxGradient float64
	Cached      bool
}

// stats prints one dot-separated line: graph size, optimizer outcome and
// whether the layout came from the cache.
func (c *console) stats(s layoutStats) {
	sep := StyleDim.Render(" · ")
	parts := []string{StyleDim.Render(plural(s.Nodes, "node") + ", " + plural(s.Edges, "edge"))}
	if s.Components > 1 {
		parts = append(parts, StyleDim.Render(plural(s.Components, "component")))
	}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("%s, energy %.4g", plural(s.Iterations, "iteration"), s.Energy)))

	if s.Converged {
		parts = append(parts, styleConverged.Render("converged"))
	} else if s.Iterations > 0 {
		parts = append(parts, styleCapped.Render(fmt.Sprintf("max gradient %.3g", s.MaxGradient)))
	}
	if s.Cached {
		parts = append(parts, styleCached.Render("cached"))
	}
	c.line("  " + strings.Join(parts, sep))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
