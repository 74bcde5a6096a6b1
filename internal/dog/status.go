package dog

import "fmt"

// Status is the dog's overall state as derived from its stats.
type Status int

const (
	StatusContent Status = iota
	StatusHungry
	StatusTired
	StatusSad
	StatusThriving
)

// GetStatus evaluates the stats in priority order: hunger, energy,
// happiness, then the all-high thriving check.
func GetStatus(d Dog) Status {
	switch {
	case d.Hunger < LowStatThreshold:
		return StatusHungry
	case d.Energy < LowStatThreshold:
		return StatusTired
	case d.Happiness < LowStatThreshold:
		return StatusSad
	case d.Happiness > HighStatThreshold && d.Energy > HighStatThreshold && d.Hunger > HighStatThreshold:
		return StatusThriving
	default:
		return StatusContent
	}
}

func (s Status) String() string {
	switch s {
	case StatusHungry:
		return "hungry"
	case StatusTired:
		return "tired"
	case StatusSad:
		return "sad"
	case StatusThriving:
		return "thriving"
	default:
		return "content"
	}
}

// Emoji returns the icon shown next to the status message
func (s Status) Emoji() string {
	switch s {
	case StatusHungry:
		return StatusEmojiHungry
	case StatusTired:
		return StatusEmojiTired
	case StatusSad:
		return StatusEmojiSad
	case StatusThriving:
		return StatusEmojiThriving
	default:
		return StatusEmojiContent
	}
}

// GetStatusMessage returns the status line for the dog, personalised with its name.
func GetStatusMessage(d Dog) string {
	status := GetStatus(d)
	switch status {
	case StatusHungry:
		return fmt.Sprintf("%s is very hungry! %s", d.Name, status.Emoji())
	case StatusTired:
		return fmt.Sprintf("%s is tired and needs rest %s", d.Name, status.Emoji())
	case StatusSad:
		return fmt.Sprintf("%s is sad and needs attention %s", d.Name, status.Emoji())
	case StatusThriving:
		return fmt.Sprintf("%s is very happy and healthy! %s", d.Name, status.Emoji())
	default:
		return fmt.Sprintf("%s is doing well! %s", d.Name, status.Emoji())
	}
}
