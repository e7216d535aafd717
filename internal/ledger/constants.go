package ledger

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)
