package dog

import "time"

// Stat bounds and rates
const (
	MaxStat     = 100
	MinStat     = 0
	InitialStat = 50 // Every new dog starts at the midpoint

	LowStatThreshold  = 30
	HighStatThreshold = 80

	// Decay applied once per tick when the matching threshold has passed
	HungerDecayAfter   = time.Hour
	PlayDecayAfter     = 30 * time.Minute
	HungerDecreaseRate = 5
	EnergyDecreaseRate = 3
	HappyDecreaseRate  = 2

	FeedHungerIncrease    = 30
	FeedHappinessIncrease = 10
	PlayEnergyIncrease    = 20
	PlayHappinessIncrease = 25
	PetHappinessIncrease  = 5

	// Status emojis
	StatusEmojiHungry   = "🍖"
	StatusEmojiTired    = "😴"
	StatusEmojiSad      = "😢"
	StatusEmojiThriving = "🎉"
	StatusEmojiContent  = "🐕"
)
