package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/trapcrawl/internal/config"
	"github.com/vovakirdan/trapcrawl/internal/registry"
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
)

// MenuModel is the scenario picker shown at the start of an SSH session.
type MenuModel struct {
	items       []registry.ScenarioInfo
	cursor      int
	width       int
	height      int
	difficulty  config.DifficultyPreset
	keys        MenuKeyMap
	help        help.Model
	quitting    bool
	selected    *registry.ScenarioInfo
	openHistory bool
}

// NewMenuModel creates a menu over the given scenarios. The cursor starts on
// preferred when it is one of them.
func NewMenuModel(items []registry.ScenarioInfo, preferred string, difficulty config.DifficultyPreset, width, height int) MenuModel {
	m := MenuModel{
		items:      items,
		width:      width,
		height:     height,
		difficulty: difficulty,
		keys:       DefaultMenuKeyMap(),
		help:       help.New(),
	}
	for i, it := range items {
		if it.ID == preferred {
			m.cursor = i
		}
	}
	return m
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
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.History):
		m.openHistory = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("  T R A P C R A W L  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Pick a scenario (difficulty: %s)", m.difficulty), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("No scenarios registered.", m.width))
		b.WriteString("\n")
	}
	for i, it := range m.items {
		line := fmt.Sprintf("  %-20s %dx%d", it.Title, it.Size.W, it.Size.H)
		if i == m.cursor {
			line = menuCursor.Render(fmt.Sprintf("> %-20s %dx%d", it.Title, it.Size.W, it.Size.H))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(centerText(m.help.View(m.keys), m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected scenario, or nil if none was selected.
func (m MenuModel) Selected() *registry.ScenarioInfo {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user asked for the run history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}
