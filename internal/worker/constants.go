package worker

// Log messages for the battle worker
const (
	LogMsgSchedulingBattleExecution = "Scheduling battle execution"
	LogMsgExecutingScheduledBattle  = "Executing scheduled battle"
	LogMsgFailedToExecuteBattle     = "Failed to execute battle"
	LogMsgFailedToSweepBattles      = "Failed to sweep expired battles on startup"
)

// Log messages for the recovery worker
const (
	LogMsgRecoveryPassStarting   = "Recovery pass starting"
	LogMsgRecoveryPassComplete   = "Draw recovery pass complete"
	LogMsgRecoveryPassFailed     = "Draw recovery pass failed"
	LogMsgBattleRecoveryComplete = "Battle recovery pass complete"
	LogMsgBattleRecoveryFailed   = "Battle recovery pass failed"
)
