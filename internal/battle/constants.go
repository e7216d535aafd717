package battle

const (
	// MinPlayers is the floor for a battle to execute.
	MinPlayers = 2
	// MaxPlayers caps lobby size.
	MaxPlayers = 8
)
