package draw

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)
