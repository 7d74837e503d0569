package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// topCommand creates the top command: an interactive ranking browser.
func (c *CLI) topCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "top <file>",
		Short: "Browse node rankings interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTop(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runTop(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.WithBetweenness = true

	spinner := newSpinnerWithContext(ctx, "computing rankings...")
	spinner.Start()
	result, err := runner.Execute(ctx, data, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	rows := make([]topRow, result.Graph.NodeCount())
	for i, n := range result.Graph.Nodes() {
		label := n.Label
		if label == "" {
			label = fmt.Sprintf("#%d", n.ID)
		}
		rows[i] = topRow{
			label:       label,
			score:       result.Scores[i],
			betweenness: result.Betweenness[i],
			degree:      int(n.Degree),
		}
	}

	model := newTopModel(rows)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// TopModel - Interactive ranking browser
// =============================================================================

type topRow struct {
	label       string
	score       float64
	betweenness float64
	degree      int
}

type sortColumn int

const (
	sortByScore sortColumn = iota
	sortByBetweenness
	sortByDegree
)

var topHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

// topModel is the bubbletea model for the ranking browser.
type topModel struct {
	rows   []topRow
	sortBy sortColumn
	cursor int
	offset int
	height int
}

func newTopModel(rows []topRow) topModel {
	m := topModel{rows: rows, height: 15}
	m.sortRows()
	return m
}

func (m *topModel) sortRows() {
	sort.SliceStable(m.rows, func(a, b int) bool {
		switch m.sortBy {
		case sortByBetweenness:
			return m.rows[a].betweenness > m.rows[b].betweenness
		case sortByDegree:
			return m.rows[a].degree > m.rows[b].degree
		default:
			return m.rows[a].score > m.rows[b].score
		}
	})
}

func (m topModel) Init() tea.Cmd {
	return nil
}

func (m topModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "r":
			m.sortBy = sortByScore
			m.sortRows()
			m.cursor, m.offset = 0, 0
		case "b":
			m.sortBy = sortByBetweenness
			m.sortRows()
			m.cursor, m.offset = 0, 0
		case "d":
			m.sortBy = sortByDegree
			m.sortRows()
			m.cursor, m.offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m topModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Node Rankings"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  r rank  b betweenness  d degree  q quit"))
	b.WriteString("\n\n")

	b.WriteString(topHeaderStyle.Render(fmt.Sprintf("    %-24s %10s %12s %7s", "node", "rank", "betweenness", "degree")))
	b.WriteString("\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		style := StyleValue
		if i == m.cursor {
			cursor = "▸ "
			style = StyleHighlight
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(fmt.Sprintf("  %-24s %10.6f %12.2f %7d", r.label, r.score, r.betweenness, r.degree)))
		b.WriteString("\n")
	}

	return b.String()
}
