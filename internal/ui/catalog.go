package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"puppyparty/internal/dog"
)

// Display mapping for the cosmetic attributes. The engine never sees any of this.

var bodyColorHex = map[dog.BodyColor]string{
	dog.BodyColorBrown:  "#8B4513",
	dog.BodyColorBlack:  "#000000",
	dog.BodyColorWhite:  "#FFFFFF",
	dog.BodyColorGolden: "#FFD700",
	dog.BodyColorGray:   "#808080",
	dog.BodyColorRed:    "#FF0000",
}

var sizeScale = map[dog.Size]float64{
	dog.SizeSmall:  0.7,
	dog.SizeMedium: 1.0,
	dog.SizeLarge:  1.3,
}

var tailLength = map[dog.Tail]int{
	dog.TailNone:  0,
	dog.TailSmall: 20,
	dog.TailLong:  40,
}

var backgroundHex = map[dog.Background]string{
	dog.BackgroundGrass:       "#90EE90",
	dog.BackgroundCement:      "#C0C0C0",
	dog.BackgroundBeach:       "#F4E4BC",
	dog.BackgroundLosAngeles:  "#FFA500",
	dog.BackgroundNewYorkCity: "#4169E1",
}

var backgroundEmoji = map[dog.Background]string{
	dog.BackgroundGrass:       "🌱",
	dog.BackgroundCement:      "🏗️",
	dog.BackgroundBeach:       "🏖️",
	dog.BackgroundLosAngeles:  "🌴",
	dog.BackgroundNewYorkCity: "🏙️",
}

// BodyColorValue returns the lipgloss color for a coat, gray for unknown values.
func BodyColorValue(c dog.BodyColor) lipgloss.Color {
	if hex, ok := bodyColorHex[c]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color("#808080")
}

func SizeScale(s dog.Size) float64 {
	if scale, ok := sizeScale[s]; ok {
		return scale
	}
	return 1.0
}

func TailLength(t dog.Tail) int {
	return tailLength[t]
}

func BackgroundColor(b dog.Background) lipgloss.Color {
	if hex, ok := backgroundHex[b]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color("#C0C0C0")
}

func BackgroundEmoji(b dog.Background) string {
	if emoji, ok := backgroundEmoji[b]; ok {
		return emoji
	}
	return "❓"
}

// RenderDog draws the dog on its background: the tail grows with TailLength
// and the scene widens with SizeScale.
func RenderDog(look dog.Appearance) string {
	tail := strings.Repeat("~", TailLength(look.Tail)/10)
	body := lipgloss.NewStyle().
		Foreground(BodyColorValue(look.BodyColor)).
		Bold(true).
		Render(tail + "🐕")

	width := int(16 * SizeScale(look.Size))
	return lipgloss.NewStyle().
		Background(BackgroundColor(look.Background)).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(BackgroundEmoji(look.Background) + " " + body)
}
