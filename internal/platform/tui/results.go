package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakes-foxes/internal/registry"
	"github.com/vovakirdan/snakes-foxes/internal/storage"
)

// Results screen layout constants
const (
	resultsHeaderRows = 8   // title, tabs, stats, help and margins
	maxResults        = 100 // rows loaded per variant
)

// ResultsKeyMap defines the key bindings for the results screen.
type ResultsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Back, k.Quit},
	}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// resultsTab is one filter of the results screen. An empty variant shows
// every game.
type resultsTab struct {
	variant string
	title   string
}

// ResultsModel is the Bubble Tea model for the results screen.
type ResultsModel struct {
	tabs      []resultsTab
	tab       int
	store     *storage.Store
	results   []storage.Result
	stats     storage.Stats
	loadErr   error
	wide      bool // table has the reason column
	table     table.Model
	help      help.Model
	keys      ResultsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewResultsModel creates a new results model.
func NewResultsModel(store *storage.Store, width, height int) ResultsModel {
	tabs := []resultsTab{{title: "All"}}
	for _, v := range registry.List() {
		tabs = append(tabs, resultsTab{variant: v.ID, title: v.ID})
	}

	m := ResultsModel{
		tabs:   tabs,
		store:  store,
		keys:   DefaultResultsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ResultsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Board", Width: 8},
		{Title: "Dice", Width: 7},
		{Title: "Winner", Width: 9},
		{Title: "Reason", Width: 24},
		{Title: "Turns", Width: 6},
		{Title: "Pieces", Width: 7},
		{Title: "Online", Width: 6},
	}

	// Drop the reason column first when narrow.
	m.wide = m.width >= 90
	if !m.wide {
		columns = append(columns[:4], columns[5:]...)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-resultsHeaderRows, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches results and stats for the current tab.
func (m *ResultsModel) load() {
	variant := m.tabs[m.tab].variant
	m.results, m.loadErr = nil, nil
	m.stats = storage.Stats{Variant: variant}

	if m.store != nil {
		m.results, m.loadErr = m.store.RecentResults(variant, maxResults)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.aggregate(variant)
		}
	}
	m.updateTableRows()
}

// aggregate returns the stats of one variant, or the sum over all of them.
func (m *ResultsModel) aggregate(variant string) (storage.Stats, error) {
	if variant != "" {
		st, err := m.store.Stats(variant)
		if err != nil {
			return storage.Stats{}, err
		}
		return *st, nil
	}

	all, err := m.store.AllStats()
	if err != nil {
		return storage.Stats{}, err
	}
	var total storage.Stats
	turns := 0.0
	for _, st := range all {
		total.Games += st.Games
		total.Wins[0] += st.Wins[0]
		total.Wins[1] += st.Wins[1]
		total.NoWinner += st.NoWinner
		turns += st.AvgTurns * float64(st.Games)
		if st.LastPlayed.After(total.LastPlayed) {
			total.LastPlayed = st.LastPlayed
		}
	}
	if total.Games > 0 {
		total.AvgTurns = turns / float64(total.Games)
	}
	return total, nil
}

func (m *ResultsModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		row := table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			fmt.Sprintf("%dx%d", r.Rings, r.NodesPerRing),
			r.Mode,
			winnerName(r.Winner),
		}
		if m.wide {
			row = append(row, r.Reason)
		}
		row = append(row,
			fmt.Sprintf("%d", r.Turns),
			fmt.Sprintf("%d:%d", r.Pieces1, r.Pieces2),
			onlineMark(r.Online),
		)
		rows[i] = row
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func winnerName(seat int) string {
	switch seat {
	case 0:
		return "Player 1"
	case 1:
		return "Player 2"
	default:
		return "-"
	}
}

func onlineMark(online bool) string {
	if online {
		return "yes"
	}
	return ""
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results screen.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.tab = (m.tab - 1 + len(m.tabs)) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results screen.
func (m ResultsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("RESULTS", m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(t.title)
		} else {
			tabs[i] = tabStyle.Render(" " + t.title + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ResultsModel) statsLine() string {
	st := m.stats
	if st.Games == 0 {
		return "No games yet"
	}
	return fmt.Sprintf("%d games  |  P1 %d  |  P2 %d  |  no winner %d  |  avg %.1f turns",
		st.Games, st.Wins[0], st.Wins[1], st.NoWinner, st.AvgTurns)
}

func (m ResultsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Results are not being recorded.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load results:\n" + m.loadErr.Error())
	case len(m.results) == 0:
		return emptyStyle.Render("No results recorded yet.\nFinish a game to see it here!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ResultsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ResultsModel) IsQuitting() bool {
	return m.quitting
}

// RunResults runs the results screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunResults(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewResultsModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := final.(ResultsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
