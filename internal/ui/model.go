package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"puppyparty/internal/dog"
)

// TimeNow is the clock used for message expiry and animations.
var TimeNow = time.Now

// RefreshInterval is how often the screen re-reads the engine snapshot.
const RefreshInterval = time.Second

// Engine is what the screens need from the pet state engine.
type Engine interface {
	Current() (dog.Dog, bool)
	Create(name string, look dog.Appearance)
	Feed()
	Play()
	Pet()
	Reset()
}

// Screen selects which view is active
type Screen int

const (
	ScreenCare Screen = iota
	ScreenAdopt
	ScreenConfirmReset
)

// Care menu entries
const (
	ChoiceFeed = iota
	ChoicePlay
	ChoicePet
	ChoiceReset
	ChoiceQuit
)

var careChoices = []string{"Feed", "Play", "Pet", "Reset", "Quit"}

// Adoption form fields
const (
	FieldName = iota
	FieldBodyColor
	FieldSize
	FieldTail
	FieldBackground
	FieldAdopt
)

// AdoptForm is the create-pup form state
type AdoptForm struct {
	Name       string
	Field      int
	BodyColor  int
	Size       int
	Tail       int
	Background int
}

// Appearance returns the selected cosmetic attributes.
func (f AdoptForm) Appearance() dog.Appearance {
	return dog.Appearance{
		BodyColor:  dog.BodyColors[f.BodyColor],
		Size:       dog.Sizes[f.Size],
		Tail:       dog.Tails[f.Tail],
		Background: dog.Backgrounds[f.Background],
	}
}

func newAdoptForm() AdoptForm {
	look := dog.DefaultAppearance()
	return AdoptForm{
		BodyColor:  indexOf(dog.BodyColors, look.BodyColor),
		Size:       indexOf(dog.Sizes, look.Size),
		Tail:       indexOf(dog.Tails, look.Tail),
		Background: indexOf(dog.Backgrounds, look.Background),
	}
}

// cycle moves the selected option of the current field by delta, wrapping.
func (f *AdoptForm) cycle(delta int) {
	wrap := func(i, n int) int { return ((i+delta)%n + n) % n }
	switch f.Field {
	case FieldBodyColor:
		f.BodyColor = wrap(f.BodyColor, len(dog.BodyColors))
	case FieldSize:
		f.Size = wrap(f.Size, len(dog.Sizes))
	case FieldTail:
		f.Tail = wrap(f.Tail, len(dog.Tails))
	case FieldBackground:
		f.Background = wrap(f.Background, len(dog.Backgrounds))
	}
}

// Model represents the app state
type Model struct {
	engine Engine

	Dog            dog.Dog
	HasDog         bool
	Screen         Screen
	Choice         int
	Form           AdoptForm
	Message        string
	MessageExpires time.Time
	Animation      Animation
	Quitting       bool
}

type refreshMsg time.Time
type animTickMsg struct {
	started time.Time
}

// NewModel creates the app model over an initialized engine
func NewModel(e Engine) Model {
	m := Model{engine: e, Form: newAdoptForm()}
	m.refresh()
	if !m.HasDog {
		m.Screen = ScreenAdopt
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return refresh()
}

func refresh() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}

		// While an animation is playing, ignore inputs except quit keys
		if m.Animation.Active() {
			if msg.String() == "q" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch m.Screen {
		case ScreenAdopt:
			return m.updateAdopt(msg)
		case ScreenConfirmReset:
			return m.updateConfirmReset(msg)
		default:
			return m.updateCare(msg)
		}

	case refreshMsg:
		m.refresh()
		if !m.HasDog && m.Screen == ScreenCare {
			m.Screen = ScreenAdopt
		}
		return m, refresh()

	case animTickMsg:
		// Drop ticks that belong to an older animation
		if !m.Animation.Active() || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}

		if !m.Animation.Advance() {
			return m, nil
		}
		return m, animTick(m.Animation.StartTime)
	}

	return m, nil
}

func (m Model) updateCare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(careChoices)-1 {
			m.Choice++
		}
	case "enter", " ":
		switch m.Choice {
		case ChoiceFeed:
			m.engine.Feed()
			m.setMessage("You fed your dog! 🍖")
			return m.afterAction(AnimFeed)
		case ChoicePlay:
			m.engine.Play()
			m.setMessage("You played with your dog! 🎾")
			return m.afterAction(AnimPlay)
		case ChoicePet:
			m.engine.Pet()
			m.setMessage("You petted your dog! 🥰")
			return m.afterAction(AnimPet)
		case ChoiceReset:
			m.Screen = ScreenConfirmReset
		case ChoiceQuit:
			m.Quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.engine.Reset()
		m.refresh()
		m.Screen = ScreenAdopt
		m.Choice = 0
		m.Form = newAdoptForm()
		m.setMessage("Your dog has been reset.")
	case "n", "N", "esc":
		m.Screen = ScreenCare
	case "q":
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateAdopt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing into the name field takes every printable key, q included
	if m.Form.Field == FieldName {
		switch msg.Type {
		case tea.KeyRunes:
			m.Form.Name += string(msg.Runes)
			return m, nil
		case tea.KeySpace:
			m.Form.Name += " "
			return m, nil
		case tea.KeyBackspace:
			if runes := []rune(m.Form.Name); len(runes) > 0 {
				m.Form.Name = string(runes[:len(runes)-1])
			}
			return m, nil
		}
	}

	switch msg.String() {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		if m.HasDog {
			m.Screen = ScreenCare
		}
	case "up", "shift+tab":
		if m.Form.Field > FieldName {
			m.Form.Field--
		}
	case "down", "tab":
		if m.Form.Field < FieldAdopt {
			m.Form.Field++
		}
	case "left", "h":
		m.Form.cycle(-1)
	case "right", "l":
		m.Form.cycle(1)
	case "enter":
		m.adopt()
	}
	return m, nil
}

func (m *Model) adopt() {
	name, err := dog.ValidateName(m.Form.Name)
	if err != nil {
		m.setMessage("Please enter a name for your dog.")
		m.Form.Field = FieldName
		return
	}

	m.engine.Create(name, m.Form.Appearance())
	m.refresh()
	m.Form = newAdoptForm()
	m.Screen = ScreenCare
	m.Choice = 0
	m.setMessage("Your digital dog " + name + " has been created successfully!")
}

func (m Model) afterAction(anim AnimationType) (tea.Model, tea.Cmd) {
	m.refresh()
	m.startAnimation(anim)
	return m, animTick(m.Animation.StartTime)
}

// refresh copies the engine's current snapshot into the model.
func (m *Model) refresh() {
	m.Dog, m.HasDog = m.engine.Current()
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = TimeNow().Add(3 * time.Second)
}

func (m *Model) startAnimation(animType AnimationType) {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		StartTime: TimeNow(),
	}
}

func indexOf[T comparable](list []T, v T) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return 0
}
