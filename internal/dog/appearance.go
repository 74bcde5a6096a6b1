package dog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAttribute is returned when a cosmetic value is not part of its catalog.
var ErrUnknownAttribute = errors.New("unknown attribute")

// BodyColor is the dog's coat color.
type BodyColor string

const (
	BodyColorBrown  BodyColor = "Brown"
	BodyColorBlack  BodyColor = "Black"
	BodyColorWhite  BodyColor = "White"
	BodyColorGolden BodyColor = "Golden"
	BodyColorGray   BodyColor = "Gray"
	BodyColorRed    BodyColor = "Red"
)

// Size is the dog's size class.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// Tail is the dog's tail class.
type Tail string

const (
	TailNone  Tail = "None"
	TailSmall Tail = "Small"
	TailLong  Tail = "Long"
)

// Background is the scene the dog is shown in.
type Background string

const (
	BackgroundGrass       Background = "Grass"
	BackgroundCement      Background = "Cement"
	BackgroundBeach       Background = "Beach"
	BackgroundLosAngeles  Background = "Los Angeles"
	BackgroundNewYorkCity Background = "New York City"
)

// Catalogs in display order
var (
	BodyColors  = []BodyColor{BodyColorBrown, BodyColorBlack, BodyColorWhite, BodyColorGolden, BodyColorGray, BodyColorRed}
	Sizes       = []Size{SizeSmall, SizeMedium, SizeLarge}
	Tails       = []Tail{TailNone, TailSmall, TailLong}
	Backgrounds = []Background{BackgroundGrass, BackgroundCement, BackgroundBeach, BackgroundLosAngeles, BackgroundNewYorkCity}
)

// Appearance groups the four cosmetic attributes chosen at creation.
// The engine stores them and never branches on their values.
type Appearance struct {
	BodyColor  BodyColor  `json:"bodyColor"`
	Size       Size       `json:"size"`
	Tail       Tail       `json:"tail"`
	Background Background `json:"background"`
}

// DefaultAppearance is what the adoption form starts from.
func DefaultAppearance() Appearance {
	return Appearance{
		BodyColor:  BodyColorBrown,
		Size:       SizeMedium,
		Tail:       TailSmall,
		Background: BackgroundGrass,
	}
}

// ParseBodyColor accepts any catalog color, ignoring case.
func ParseBodyColor(s string) (BodyColor, error) {
	return parseAttribute("body color", s, BodyColors)
}

// ParseSize accepts Small, Medium or Large in any case.
func ParseSize(s string) (Size, error) {
	return parseAttribute("size", s, Sizes)
}

// ParseTail accepts None, Small or Long in any case.
func ParseTail(s string) (Tail, error) {
	return parseAttribute("tail", s, Tails)
}

// ParseBackground accepts any catalog background, ignoring case.
func ParseBackground(s string) (Background, error) {
	return parseAttribute("background", s, Backgrounds)
}

// parseAttribute matches s case-insensitively against a catalog.
func parseAttribute[T ~string](category, s string, catalog []T) (T, error) {
	s = strings.TrimSpace(s)
	for _, v := range catalog {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", category, s, ErrUnknownAttribute)
}
