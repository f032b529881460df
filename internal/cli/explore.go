package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/container"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listOKStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	listWarnStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	listErrStyle      = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var noStore bool

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Navigate the tree interactively",
		Long: `Open an interactive view of the navigation tree. Pick a route on the
focused path and press enter to navigate to it; the action is pinned to the
navigator that owns the route. Every change is persisted unless --no-store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, noStore)
			if err != nil {
				return err
			}
			defer sess.Close()
			if err := sess.restore(ctx); err != nil {
				return err
			}

			_, err = tea.NewProgram(NewExploreModel(ctx, sess.container), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noStore, "no-store", false, "start from the initial state and do not persist")
	return cmd
}

// =============================================================================
// ExploreModel - Interactive navigation
// =============================================================================

// choice is one route a user can navigate to.
type choice struct {
	navigator string // key of the owning navigator
	router    string
	depth     int
	name      string
}

// ExploreModel is the bubbletea model behind `waypoint explore`.
type ExploreModel struct {
	ctx     context.Context
	c       *container.Container
	choices []choice
	Cursor  int
	status  string
	level   statusLevel
}

type statusLevel int

const (
	statusOK statusLevel = iota
	statusUnhandled
	statusError
)

// NewExploreModel creates a model driving c.
func NewExploreModel(ctx context.Context, c *container.Container) ExploreModel {
	m := ExploreModel{ctx: ctx, c: c}
	m.refresh()
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.choices)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.choices) > 0 {
			ch := m.choices[m.Cursor]
			m.dispatch(routers.Navigate(ch.name, nil).WithTarget(ch.navigator))
		}
	case "p":
		if len(m.choices) > 0 {
			ch := m.choices[m.Cursor]
			m.dispatch(routers.Push(ch.name, nil).WithTarget(ch.navigator))
		}
	case "b", "backspace":
		m.dispatch(routers.GoBack())
	case "d":
		m.dispatch(routers.ToggleDrawer())
	case "r":
		if _, err := m.c.ResetRoot(m.ctx, nil); err != nil {
			m.status, m.level = err.Error(), statusError
		} else {
			m.status, m.level = "reset to initial state", statusOK
		}
		m.refresh()
	}
	return m, nil
}

func (m *ExploreModel) dispatch(a nav.Action) {
	handled, err := m.c.Dispatch(m.ctx, a)
	switch {
	case err != nil:
		m.status, m.level = err.Error(), statusError
	case handled:
		m.status, m.level = a.String(), statusOK
	default:
		m.status, m.level = a.String()+" was not handled", statusUnhandled
	}
	m.refresh()
}

// refresh rebuilds the choices from the focused path and keeps the cursor
// in range.
func (m *ExploreModel) refresh() {
	m.choices = focusedChoices(m.c.Spec(), m.c.State())
	m.Cursor = min(m.Cursor, max(len(m.choices)-1, 0))
}

func focusedChoices(spec *container.Navigator, s *nav.State) []choice {
	var out []choice
	for depth := 0; spec != nil && s != nil; depth++ {
		for _, name := range spec.Config.RouteNames {
			out = append(out, choice{navigator: s.Key, router: s.Type, depth: depth, name: name})
		}
		r, ok := s.Focused()
		if !ok {
			break
		}
		spec, s = spec.Child(r.Name), r.State
	}
	return out
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Navigation Tree"))
	b.WriteString("\n\n")
	b.WriteString(renderTree(m.c.State()))
	b.WriteString("\n\n")

	b.WriteString(StyleTitle.Render("Navigate To"))
	b.WriteString("\n")
	for i, ch := range m.choices {
		cursor := "  "
		if i == m.Cursor {
			cursor = iconFocus + " "
		}
		line := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", ch.depth), ch.name, listDimStyle.Render(ch.router))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		style := listOKStyle
		switch m.level {
		case statusUnhandled:
			style = listWarnStyle
		case statusError:
			style = listErrStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ navigate  p push  b back  d drawer  r reset  q quit"))
	return b.String()
}
