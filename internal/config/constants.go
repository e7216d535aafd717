package config

import "time"

const (
	// Configuration file paths
	DefaultCatalogPath = "configs/cases.json"

	// Timing defaults
	DefaultBattleJoinDuration  = 60 * time.Second
	DefaultRecoveryInterval    = 30 * time.Second
	DefaultRecoveryGracePeriod = 2 * time.Minute

	// Client seed limits. Seeds are actor-supplied strings and only ever
	// hashed, but an upper bound keeps rows and log lines sane.
	DefaultMaxClientSeedLength = 64
)
