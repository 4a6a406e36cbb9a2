package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustgraph/pkg/state"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the network interactively",
		Long: `Open an interactive browser over the network graph.

Keys: ↑/↓ select, enter show profile, esc close profile, r reload graph, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			client := c.newClient()
			graph := state.NewGraph(ctx, client, c.storeOptions()...)
			defer graph.Close()
			profile := state.NewProfile(ctx, client, c.storeOptions()...)
			defer profile.Close()

			p := tea.NewProgram(newBrowseModel(ctx, graph, profile),
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		},
	}
}

// =============================================================================
// browseModel - Interactive graph browser
// =============================================================================

// graphChangedMsg and profileChangedMsg report a store change notification.
type (
	graphChangedMsg   struct{}
	profileChangedMsg struct{}
)

// browseModel is the bubbletea model for the browse command. It re-renders
// from store snapshots whenever a store signals a change.
type browseModel struct {
	ctx     context.Context
	graph   *state.Graph
	profile *state.Profile

	graphState   state.GraphState
	profileState state.ProfileState
	graphWatch   tea.Cmd
	profileWatch tea.Cmd

	cursor int
	offset int
	height int
	width  int
}

func newBrowseModel(ctx context.Context, graph *state.Graph, profile *state.Profile) browseModel {
	m := browseModel{ctx: ctx, graph: graph, profile: profile, height: 15}
	m.syncGraph()
	m.syncProfile()
	return m
}

// syncGraph subscribes to the next graph change, then takes a snapshot, so a
// change between the two is never missed.
func (m *browseModel) syncGraph() {
	ch := m.graph.Changed()
	m.graphState = m.graph.State()
	m.graphWatch = watch(m.ctx, ch, graphChangedMsg{})
	if m.cursor >= m.nodeCount() {
		m.cursor = max(0, m.nodeCount()-1)
		m.offset = min(m.offset, m.cursor)
	}
}

func (m *browseModel) syncProfile() {
	ch := m.profile.Changed()
	m.profileState = m.profile.State()
	m.profileWatch = watch(m.ctx, ch, profileChangedMsg{})
}

// watch waits for ch to close and reports msg. It gives up when ctx ends.
func watch(ctx context.Context, ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

func (m browseModel) nodeCount() int {
	if m.graphState.Data == nil {
		return 0
	}
	return len(m.graphState.Data.Nodes)
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.graphWatch, m.profileWatch)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case graphChangedMsg:
		m.syncGraph()
		return m, m.graphWatch
	case profileChangedMsg:
		m.syncProfile()
		return m, m.profileWatch
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(5, msg.Height-8)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < m.nodeCount()-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if m.nodeCount() == 0 {
				return m, nil
			}
			id := m.graphState.Data.Nodes[m.cursor].ID
			return m, m.fetchProfile(id)
		case "esc":
			m.profile.Clear()
		case "r":
			return m, m.refetch()
		}
	}
	return m, nil
}

// fetchProfile runs the fetch off the UI loop; the result arrives as a
// profileChangedMsg.
func (m browseModel) fetchProfile(id string) tea.Cmd {
	return func() tea.Msg {
		m.profile.FetchProfile(m.ctx, id)
		return nil
	}
}

func (m browseModel) refetch() tea.Cmd {
	return func() tea.Msg {
		m.graph.Refetch(m.ctx)
		return nil
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("TrustGraph"))
	b.WriteString("  ")
	b.WriteString(m.graphStatus())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ profile  esc close  r reload  q quit"))
	b.WriteString("\n\n")

	list := m.renderList()
	if detail := m.renderDetail(); detail != "" {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", panelStyle.Render(detail)))
	} else {
		b.WriteString(list)
	}
	b.WriteString("\n")
	return b.String()
}

func (m browseModel) graphStatus() string {
	st := m.graphState
	switch {
	case st.Loading:
		return StyleDim.Render("loading graph…")
	case st.HasError():
		return StyleError.Render(iconError + " " + st.Err)
	case st.Data != nil:
		return StyleDim.Render(fmt.Sprintf("%d profiles · %d connections", len(st.Data.Nodes), len(st.Data.Edges)))
	}
	return ""
}

func (m browseModel) renderList() string {
	if m.nodeCount() == 0 {
		return listDimStyle.Render("  no profiles")
	}

	var b strings.Builder
	nodes := m.graphState.Data.Nodes
	end := min(m.offset+m.height, len(nodes))
	for i := m.offset; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, verifiedMark(n.Verified), style.Render(fmt.Sprintf("%-20s", n.Label)), listDimStyle.Render(n.Role))
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(nodes))))
	return b.String()
}

// renderDetail renders the profile panel, or "" when it is closed.
func (m browseModel) renderDetail() string {
	st := m.profileState
	switch {
	case st.Loading:
		return StyleDim.Render("Loading profile…")
	case st.HasError():
		return StyleError.Render(iconError + " " + st.Err)
	case st.Profile != nil:
		return strings.TrimRight(renderProfile(st.Profile), "\n")
	}
	return ""
}
