package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/PigStep/vibe-idef0-front/pkg/graph"
	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain    bool
		asJSON   bool
		standOff float64
	)

	cmd := &cobra.Command{
		Use:   "inspect [diagram.json]",
		Short: "Show the computed layout of a diagram",
		Long: `Show the computed layout of a diagram.

Lists every activity box with its position and every arrow with its anchors
and free points, exactly as they are written into the draw.io document.

In a terminal the tables are interactive (tab switches between activities and
arrows). Use --plain to print them once or --json for machine-readable output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.computeLayout(cmd.Context(), args[0], standOff)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case asJSON:
				data, err := graph.MarshalLayout(l)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			case plain || !isTerminal(w):
				return writeLayoutTables(w, l)
			}

			_, err = tea.NewProgram(NewInspectModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the tables once instead of the interactive view")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	cmd.Flags().Float64Var(&standOff, "stand-off", route.DefaultStandOff, "distance of boundary arrow ends from their box")

	return cmd
}

func (c *CLI) computeLayout(ctx context.Context, input string, standOff float64) (graph.Layout, error) {
	d, err := readDiagram(input)
	if err != nil {
		return graph.Layout{}, err
	}
	runner, err := c.newRunner(true)
	if err != nil {
		return graph.Layout{}, err
	}
	defer runner.Close()

	return runner.Layout(ctx, d, pipeline.Options{StandOff: route.StandOff(standOff)})
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// =============================================================================
// Table Rows
// =============================================================================

var (
	blockHeaders = []string{"ID", "No.", "Label", "X", "Y", "W", "H"}
	arrowHeaders = []string{"ID", "Role", "From", "To", "Label", "Anchors"}
)

func blockRows(l graph.Layout) [][]string {
	rows := make([][]string, len(l.Blocks))
	for i, b := range l.Blocks {
		rows[i] = []string{
			strconv.Itoa(b.ID), b.Number, b.Label,
			fmtNum(b.X), fmtNum(b.Y), fmtNum(b.Width), fmtNum(b.Height),
		}
	}
	return rows
}

func arrowRows(l graph.Layout) [][]string {
	rows := make([][]string, len(l.Arrows))
	for i, a := range l.Arrows {
		rows[i] = []string{
			a.ID, a.Type,
			fmtEnd(l, a.SourceID), fmtEnd(l, a.TargetID),
			a.Label, fmtAnchors(a),
		}
	}
	return rows
}

// fmtEnd names an arrow end by node number when available.
func fmtEnd(l graph.Layout, id *int) string {
	if id == nil {
		return "boundary"
	}
	if b, ok := l.Block(*id); ok && b.Number != "" {
		return b.Number
	}
	return "#" + strconv.Itoa(*id)
}

func fmtAnchors(a graph.Arrow) string {
	var parts []string
	if a.SourcePoint != nil {
		parts = append(parts, fmt.Sprintf("from (%s, %s)", fmtNum(a.SourcePoint.X), fmtNum(a.SourcePoint.Y)))
	}
	if a.Exit != nil {
		parts = append(parts, fmt.Sprintf("exit %s,%s", fmtNum(a.Exit.X), fmtNum(a.Exit.Y)))
	}
	if a.Entry != nil {
		parts = append(parts, fmt.Sprintf("entry %s,%s", fmtNum(a.Entry.X), fmtNum(a.Entry.Y)))
	}
	if a.TargetPoint != nil {
		parts = append(parts, fmt.Sprintf("to (%s, %s)", fmtNum(a.TargetPoint.X), fmtNum(a.TargetPoint.Y)))
	}
	return strings.Join(parts, "  ")
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeLayoutTables prints both tables without styling.
func writeLayoutTables(w io.Writer, l graph.Layout) error {
	name := l.Name
	if name == "" {
		name = "(unnamed)"
	}
	blocks := table.New().Border(lipgloss.NormalBorder()).Headers(blockHeaders...).Rows(blockRows(l)...)
	arrows := table.New().Border(lipgloss.NormalBorder()).Headers(arrowHeaders...).Rows(arrowRows(l)...)

	_, err := fmt.Fprintf(w, "%s  %sx%s\n\nActivities\n%s\n\nArrows\n%s\n",
		name, fmtNum(l.Width), fmtNum(l.Height), blocks.Render(), arrows.Render())
	return err
}

// =============================================================================
// InspectModel - Interactive layout view
// =============================================================================

const (
	tabBlocks = iota
	tabArrows
)

// InspectModel is the bubbletea model for browsing a computed layout.
type InspectModel struct {
	Layout graph.Layout
	Tab    int
	Cursor int
	Height int
	Offset int
}

// NewInspectModel creates a model showing the activities tab.
func NewInspectModel(l graph.Layout) InspectModel {
	return InspectModel{Layout: l, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) rowCount() int {
	if m.Tab == tabArrows {
		return len(m.Layout.Arrows)
	}
	return len(m.Layout.Blocks)
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.Tab = (m.Tab + 1) % 2
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rowCount()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	title := m.Layout.Name
	if title == "" {
		title = "IDEF0 Layout"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%sx%s", fmtNum(m.Layout.Width), fmtNum(m.Layout.Height))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab switch  ↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	headers, rows := blockHeaders, blockRows(m.Layout)
	label := "Activities"
	if m.Tab == tabArrows {
		headers, rows = arrowHeaders, arrowRows(m.Layout)
		label = "Arrows"
	}
	b.WriteString(StyleValue.Render(label))
	b.WriteString("\n")

	end := min(m.Offset+m.Height, len(rows))
	visible := rows[m.Offset:end]
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(visible...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if row >= len(visible) {
				return base
			}
			if m.Tab == tabArrows && col == 1 {
				if s, ok := roleStyles[visible[row][1]]; ok {
					base = s
				}
			}
			if m.Offset+row == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(rows) > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%s/%d]", StyleNumber.Render(strconv.Itoa(m.Cursor+1)), len(rows))))
	}

	return b.String()
}
