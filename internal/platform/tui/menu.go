package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/registry"
)

// MenuItemKind is what a menu entry leads to.
type MenuItemKind int

const (
	MenuPlay    MenuItemKind = iota // hot-seat game on one keyboard
	MenuOnline                      // host or join an online match
	MenuResults                     // results and statistics screen
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Kind    MenuItemKind
	Variant string
	Title   string
	Detail  string
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	config   core.RuntimeConfig
	quitting bool
	selected *MenuItem
}

// NewMenuModel creates a new menu model. Online entries are only offered
// where a coordinator is running, i.e. over SSH.
func NewMenuModel(cfg core.RuntimeConfig, online bool) MenuModel {
	variants := registry.List()
	items := make([]MenuItem, 0, 2*len(variants)+1)

	for _, v := range variants {
		items = append(items, MenuItem{
			Kind:    MenuPlay,
			Variant: v.ID,
			Title:   v.Title,
			Detail:  v.Description,
		})
	}
	if online {
		for _, v := range variants {
			items = append(items, MenuItem{
				Kind:    MenuOnline,
				Variant: v.ID,
				Title:   "Online: " + v.Title,
				Detail:  "Host or join a match against another player",
			})
		}
	}
	items = append(items, MenuItem{
		Kind:   MenuResults,
		Title:  "Results",
		Detail: "Recent games and win counts",
	})

	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)

	case MenuActionDown:
		m.cursor = min(m.cursor+1, len(m.items)-1)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}
	}

	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the menu: banner, entries, the highlighted entry's detail
// and a key hint.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	rows := []string{
		"",
		menuTitleStyle.Render("S N A K E S   &   F O X E S"),
		"",
		menuDimStyle.Render("Reach the outer ring and make it home"),
		"",
	}
	for i, item := range m.items {
		if i == m.cursor {
			rows = append(rows, menuActiveStyle.Render("> "+item.Title))
			continue
		}
		rows = append(rows, "  "+item.Title)
	}
	if len(m.items) > 0 {
		rows = append(rows, "", menuDimStyle.Render(m.items[m.cursor].Detail))
	}
	rows = append(rows, "", "Up/Down: Navigate  |  Enter: Select  |  Q: Quit")

	for i, r := range rows {
		rows[i] = centerText(r, m.width)
	}
	return strings.Join(rows, "\n") + "\n"
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Item   MenuItem
	Config core.RuntimeConfig
	Quit   bool
}

// String describes the selection for logs.
func (r MenuResult) String() string {
	if r.Quit {
		return "quit"
	}
	return fmt.Sprintf("%d:%s", r.Item.Kind, r.Item.Variant)
}

// RunMenu runs the local menu and returns the selection.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(cfg, false), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := final.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return MenuResult{Item: *m.Selected(), Config: m.Config()}, nil
}
