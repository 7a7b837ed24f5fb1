package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mbertsch/ioflow/pkg/analysis"
	"github.com/mbertsch/ioflow/pkg/netlist"
	"github.com/mbertsch/ioflow/pkg/pipeline"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive report browser.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse <netlist.json>",
		Short: "Browse analysis reports interactively",
		Long: `Analyze a netlist and browse the per-module reports in an interactive
terminal UI. Selecting a combinational module shows which input bits each
output bit depends on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd, args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the report cache")

	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, path string, noCache bool) error {
	ctx := cmd.Context()

	design, err := netlist.ImportJSON(path)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	result, err := runner.Execute(ctx, design, pipeline.Options{
		NoCache:  noCache,
		CacheTTL: cfg.TTL(),
		Config:   cfg.AnalysisConfig(),
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	model := newBrowseModel(result.Reports)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// =============================================================================
// browseModel - Interactive module list with report detail view
// =============================================================================

// browseModel is the bubbletea model for browsing module reports.
// It has two screens: the module list, and the dependency detail of the
// selected module.
type browseModel struct {
	Reports []*analysis.Report
	Cursor  int
	Offset  int
	Height  int

	// Detail is the report shown full-screen, nil on the list screen.
	Detail       *analysis.Report
	DetailOffset int
}

func newBrowseModel(reports []*analysis.Report) browseModel {
	return browseModel{
		Reports: reports,
		Height:  15,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail != nil {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.Reports)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "enter":
		m.Detail = m.Reports[m.Cursor]
		m.DetailOffset = 0
	}
	return m, nil
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.Detail = nil
	case "up", "k":
		if m.DetailOffset > 0 {
			m.DetailOffset--
		}
	case "down", "j":
		if m.DetailOffset < len(m.Detail.Outputs)-1 {
			m.DetailOffset++
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.Detail != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Modules"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ inspect  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Reports) {
		end = len(m.Reports)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Reports[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		kind := "combinational"
		if r.IsSequential {
			kind = "sequential"
		}

		deps := "—"
		if !r.IsSequential {
			deps = strconv.Itoa(len(r.Dependencies))
		}

		rows = append(rows, []string{
			cursor, r.Module, kind,
			strconv.Itoa(len(r.Inputs)), strconv.Itoa(len(r.Outputs)), deps,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Module", "Kind", "Inputs", "Outputs", "Resolved bits").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Reports) {
				return lipgloss.NewStyle()
			}
			r := m.Reports[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				base = base.Bold(true)
			}
			if col == 2 {
				if r.IsSequential {
					return base.Foreground(colorYellow)
				}
				return base.Foreground(colorGreen)
			}
			if r.IsSequential && !isCurrent {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Reports))))

	return b.String()
}

func (m browseModel) viewDetail() string {
	var b strings.Builder
	r := m.Detail

	b.WriteString(StyleTitle.Render(r.Module))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  esc back  q quit"))
	b.WriteString("\n\n")

	if r.IsSequential {
		b.WriteString(StyleWarning.Render("Sequential module"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("Dependency resolution is skipped for modules with state elements."))
		b.WriteString("\n")
		return b.String()
	}

	end := m.DetailOffset + m.Height
	if end > len(r.Outputs) {
		end = len(r.Outputs)
	}

	for i := m.DetailOffset; i < end; i++ {
		out := r.Outputs[i]
		label := bitLabel(out)
		deps := r.Dependencies[label]

		b.WriteString(StyleHighlight.Render(label))
		b.WriteString(listDimStyle.Render(" ← "))
		if len(deps) == 0 {
			b.WriteString(listDimStyle.Render("(constant)"))
		} else {
			names := make([]string, len(deps))
			for j, d := range deps {
				names[j] = bitLabel(d)
			}
			b.WriteString(listNormalStyle.Render(strings.Join(names, ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d outputs]", m.DetailOffset+1, end, len(r.Outputs))))

	return b.String()
}

func bitLabel(d analysis.BitDesc) string {
	return fmt.Sprintf("%s[%d]", d.Name, d.Offset)
}
