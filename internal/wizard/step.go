package wizard

import "fmt"

// Step is a position in the fixed registration sequence.
type Step int

const (
	StepWelcome Step = iota
	StepPersonalInfo
	StepHeritage
	StepInterests
	StepLocation
	StepCommunity
	StepMembership
	StepComplete
)

// StepCount is the number of steps in the sequence.
const StepCount = int(StepComplete) + 1

var stepNames = [StepCount]string{
	"welcome",
	"personal",
	"heritage",
	"interests",
	"location",
	"community",
	"membership",
	"complete",
}

var stepTitles = [StepCount]string{
	"Welcome",
	"Personal Info",
	"Cultural Heritage",
	"Cultural Interests",
	"Location",
	"Community",
	"Membership",
	"Complete",
}

// Valid reports whether s is inside the sequence.
func (s Step) Valid() bool {
	return s >= StepWelcome && s <= StepComplete
}

// Terminal reports whether s is the step submission happens from.
func (s Step) Terminal() bool {
	return s == StepComplete
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Title is the human readable step name.
func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTitles[s]
}

// ParseStep converts a step name into a Step.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStep, name)
}
