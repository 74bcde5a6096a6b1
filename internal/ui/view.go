package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"puppyparty/internal/dog"
)

var appStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	warn    lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B35")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B35")).
		Width(44),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B35")).
		Width(44),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B35")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	warn: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF0000")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}

	switch m.Screen {
	case ScreenAdopt:
		return m.adoptView()
	case ScreenConfirmReset:
		return m.confirmResetView()
	}

	if !m.HasDog {
		return m.adoptView()
	}

	if m.Animation.Active() {
		return m.renderAnimation()
	}

	sections := []string{
		m.renderTitle(),
		"",
		RenderDog(m.Dog.Appearance),
		"",
		m.renderStats(),
		"",
		appStyles.status.Render(dog.GetStatusMessage(m.Dog)),
	}

	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", appStyles.status.Render(msg))
	}

	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		appStyles.status.Render("Use arrows to move • enter to select • q to quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) activeMessage() string {
	if m.Message != "" && TimeNow().Before(m.MessageExpires) {
		return m.Message
	}
	return ""
}

func (m Model) renderTitle() string {
	return appStyles.title.Render("🐶 " + m.Dog.Name + " 🐶")
}

func (m Model) renderStats() string {
	stats := []struct {
		name  string
		value int
	}{
		{"Happiness", m.Dog.Happiness},
		{"Energy", m.Dog.Energy},
		{"Hunger", m.Dog.Hunger},
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-10s [%s] %3d%%", stat.name+":", makeBar(stat.value), stat.value))
	}

	return appStyles.stats.Render(strings.Join(lines, "\n"))
}

// makeBar renders a five-cell bar, one cell per 20 points
func makeBar(value int) string {
	filled := value / 20
	var bar strings.Builder
	for i := 0; i < 5; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}

func (m Model) renderMenu() string {
	var menuItems []string
	for i, choice := range careChoices {
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, choice))
	}

	return appStyles.menuBox.Render(appStyles.menu.Render(strings.Join(menuItems, "\n")))
}

func (m Model) adoptView() string {
	preview := m.Form.Name
	if strings.TrimSpace(preview) == "" {
		preview = "Your Pup"
	}
	look := m.Form.Appearance()

	field := func(index int, label, value string) string {
		cursor := " "
		if m.Form.Field == index {
			cursor = ">"
		}
		if index == FieldName {
			return fmt.Sprintf("%s %-11s %s_", cursor, label, m.Form.Name)
		}
		return fmt.Sprintf("%s %-11s ‹ %s ›", cursor, label, value)
	}

	adoptButton := "  [ Create Pup ]"
	if m.Form.Field == FieldAdopt {
		adoptButton = "> [ Create Pup ]"
	}

	rows := []string{
		field(FieldName, "Name:", ""),
		field(FieldBodyColor, "Body color:", string(look.BodyColor)),
		field(FieldSize, "Size:", string(look.Size)),
		field(FieldTail, "Tail:", string(look.Tail)),
		field(FieldBackground, "Background:", BackgroundEmoji(look.Background)+" "+string(look.Background)),
		"",
		adoptButton,
	}

	sections := []string{
		appStyles.title.Render("🐾 Create Your Pup 🐾"),
		"",
		appStyles.title.Render(preview),
		RenderDog(look),
		"",
		appStyles.menuBox.Render(appStyles.menu.Render(strings.Join(rows, "\n"))),
	}

	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", appStyles.status.Render(msg))
	}

	help := "Type a name • ↑/↓ field • ←/→ change • enter to create"
	if m.HasDog {
		help += " • esc back"
	}
	sections = append(sections, "", appStyles.status.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) confirmResetView() string {
	return lipgloss.JoinVertical(
		lipgloss.Center,
		appStyles.warn.Render("Reset Dog"),
		"",
		appStyles.status.Render(fmt.Sprintf("Are you sure you want to reset %s? This cannot be undone.", m.Dog.Name)),
		"",
		appStyles.status.Render("Press 'y' to reset, 'n' to cancel"),
	)
}

func (m Model) renderAnimation() string {
	animStyle := lipgloss.NewStyle().
		Foreground(BodyColorValue(m.Dog.BodyColor)).
		Bold(true).
		Padding(1, 2)

	sections := []string{
		m.renderTitle(),
		"",
		animStyle.Render(m.Animation.Current()),
	}

	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", appStyles.status.Render(msg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
