package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"puppyparty/internal/dog"
)

// StatsModel is a simple Bubble Tea model for displaying stats
type StatsModel struct {
	Dog dog.Dog
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	return StatsCard(m.Dog) + "\nPress ESC, click, or any key to close..."
}

// StatsCard renders the dog's profile card as plain text.
func StatsCard(d dog.Dog) string {
	status := dog.GetStatus(d)

	var s strings.Builder
	s.WriteString("╔════════════════════════════════════╗\n")
	s.WriteString(fmt.Sprintf("║  🐶 %-31s║\n", d.Name))
	s.WriteString("╠════════════════════════════════════╣\n")
	s.WriteString(fmt.Sprintf("║  Color:      %-22s║\n", d.BodyColor))
	s.WriteString(fmt.Sprintf("║  Size:       %-22s║\n", d.Size))
	s.WriteString(fmt.Sprintf("║  Tail:       %-22s║\n", d.Tail))
	s.WriteString(fmt.Sprintf("║  Background: %-22s║\n", d.Background))
	s.WriteString(fmt.Sprintf("║  Status:     %-22s║\n", status))
	s.WriteString("║                                    ║\n")
	s.WriteString(fmt.Sprintf("║  Happiness: [%s] %3d%%           ║\n", makeBar(d.Happiness), d.Happiness))
	s.WriteString(fmt.Sprintf("║  Energy:    [%s] %3d%%           ║\n", makeBar(d.Energy), d.Energy))
	s.WriteString(fmt.Sprintf("║  Hunger:    [%s] %3d%%           ║\n", makeBar(d.Hunger), d.Hunger))
	s.WriteString("╚════════════════════════════════════╝\n")
	s.WriteString(dog.GetStatusMessage(d) + "\n")

	return s.String()
}

// DisplayStats shows the stats display
func DisplayStats(d dog.Dog) error {
	program := tea.NewProgram(StatsModel{Dog: d}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running stats display: %w", err)
	}
	return nil
}
