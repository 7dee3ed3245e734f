// Package app provides the interactive roster loop and its input modes.
package app

// Mode represents which input handler owns the keyboard.
type Mode int

const (
	// ModeLoading waits for the manager to finish loading stored state.
	ModeLoading Mode = iota
	// ModeRoster is the default mode where keys act on the selected enemy.
	ModeRoster
	// ModeAdd edits the add-enemy form.
	ModeAdd
	// ModePrompt edits a single text value for the selected enemy.
	ModePrompt
	// ModeSettings toggles preferences.
	ModeSettings
	// ModeHelp shows the key reference.
	ModeHelp
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeRoster:
		return "roster"
	case ModeAdd:
		return "add"
	case ModePrompt:
		return "prompt"
	case ModeSettings:
		return "settings"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}
