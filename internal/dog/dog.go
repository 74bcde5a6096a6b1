package dog

import (
	"errors"
	"strings"
	"time"
)

// ErrBlankName is returned by ValidateName for an empty or whitespace-only name.
var ErrBlankName = errors.New("please enter a name for your dog")

// Dog represents the single virtual pet's state
type Dog struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Appearance

	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
	Hunger    int `json:"hunger"`

	LastFed    time.Time `json:"lastFed"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// New creates a dog with every stat at the midpoint and both timestamps at now.
func New(id, name string, look Appearance, now time.Time) Dog {
	return Dog{
		ID:         id,
		Name:       name,
		Appearance: look,
		Happiness:  InitialStat,
		Energy:     InitialStat,
		Hunger:     InitialStat,
		LastFed:    now,
		LastPlayed: now,
	}
}

// ValidateName trims the name and rejects it if nothing is left.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrBlankName
	}
	return trimmed, nil
}

// Feed fills the dog up and resets the hunger clock.
func (d *Dog) Feed(now time.Time) {
	d.Hunger = clamp(d.Hunger + FeedHungerIncrease)
	d.Happiness = clamp(d.Happiness + FeedHappinessIncrease)
	d.LastFed = now
}

// Play restores energy and resets the play clock.
func (d *Dog) Play(now time.Time) {
	d.Energy = clamp(d.Energy + PlayEnergyIncrease)
	d.Happiness = clamp(d.Happiness + PlayHappinessIncrease)
	d.LastPlayed = now
}

// Pet makes the dog a little happier. Timestamps are left alone.
func (d *Dog) Pet() {
	d.Happiness = clamp(d.Happiness + PetHappinessIncrease)
}

// Decay applies one fixed step of time-driven decline and reports whether
// any stat changed. The step does not scale with how long ago the threshold
// was crossed, and the timestamps are never touched.
func (d *Dog) Decay(now time.Time) bool {
	before := *d

	if now.Sub(d.LastFed) > HungerDecayAfter {
		d.Hunger = clamp(d.Hunger - HungerDecreaseRate)
	}

	if now.Sub(d.LastPlayed) > PlayDecayAfter {
		d.Energy = clamp(d.Energy - EnergyDecreaseRate)
		d.Happiness = clamp(d.Happiness - HappyDecreaseRate)
	}

	return before.Hunger != d.Hunger || before.Energy != d.Energy || before.Happiness != d.Happiness
}

// Normalize forces all stats back into range. Used on records read from disk.
func (d *Dog) Normalize() {
	d.Happiness = clamp(d.Happiness)
	d.Energy = clamp(d.Energy)
	d.Hunger = clamp(d.Hunger)
}

func clamp(v int) int {
	return max(MinStat, min(v, MaxStat))
}
