package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "casevault", cfg.DBName)
	assert.Equal(t, DefaultCatalogPath, cfg.CatalogPath)
	assert.Equal(t, DefaultBattleJoinDuration, cfg.BattleJoinDuration)
	assert.Equal(t, DefaultRecoveryGracePeriod, cfg.RecoveryGracePeriod)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("BATTLE_JOIN_DURATION", "15s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.BattleJoinDuration)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("RECOVERY_INTERVAL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECOVERY_INTERVAL")
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{
		DBUser:     "user",
		DBPassword: "pass",
		DBHost:     "db",
		DBPort:     "5433",
		DBName:     "cases",
	}
	assert.Equal(t, "postgres://user:pass@db:5433/cases?sslmode=disable", cfg.GetDBConnString())
}
