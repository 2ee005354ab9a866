package core

// RuntimeConfig contains what a front end knows about its environment when
// a session starts.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed; 0 means seed from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
	}
}

// Action is a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionConfirm
	ActionBack
	ActionRestart
	ActionQuit
	ActionPause
	ActionScreenshot
	ActionScores
)

// Direction maps a movement action to its direction.
// ok is false for non-movement actions.
func (a Action) Direction() (d Direction, ok bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	}
	return 0, false
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionScreenshot:
		return "Screenshot"
	case ActionScores:
		return "Scores"
	default:
		return "Unknown"
	}
}
