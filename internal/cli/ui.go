package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusOut receives human-oriented status lines. Documents and previews
// written with -o - go to stdout, so status stays on stderr.
var statusOut io.Writer = os.Stderr

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorPurple = lipgloss.Color("141")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the status lines and the inspect view.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// roleStyles colors arrow roles the same way the Graphviz preview does.
var roleStyles = map[string]lipgloss.Style{
	"Input":     lipgloss.NewStyle().Foreground(colorWhite),
	"Control":   lipgloss.NewStyle().Foreground(colorBlue),
	"Output":    lipgloss.NewStyle().Foreground(colorGreen),
	"Mechanism": lipgloss.NewStyle().Foreground(colorPurple),
}

// statusKind selects the icon and color of a status line.
type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed)},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorYellow)},
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
}

func printStatus(kind statusKind, msg string) {
	ic := statusIcons[kind]
	if kind == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(statusOut, ic.style.Render(ic.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { printStatus(statusError, fmt.Sprintf(format, args...)) }
func printWarning(format string, args ...any) { printStatus(statusWarning, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, fmt.Sprintf(format, args...)) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path a command wrote.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(statusOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N activities · M arrows · fresh|cached".
func printStats(nodeCount, edgeCount int, cached bool) {
	fmt.Fprintln(statusOut, statsLine(nodeCount, edgeCount, cached))
}

func statsLine(nodeCount, edgeCount int, cached bool) string {
	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		origin = StyleSuccess.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	return "  " + strings.Join([]string{
		StyleDim.Render(plural(nodeCount, "activity", "activities")),
		StyleDim.Render(plural(edgeCount, "arrow", "arrows")),
		origin,
	}, sep)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(statusOut)
}
