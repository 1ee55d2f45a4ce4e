package config

import (
	"cardroom-server/internal/util"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	defer util.SetEnv("CARDROOM_CONFIG_FILE", "testdata/config.yaml")()
	defer util.SetEnv("CARDROOM_JWT_PRIVATE_KEY", "private2.key")()
	config = Config{}

	a := assert.New(t)
	cfg := Instance()
	a.Equal(":8080", cfg.Addr)
	a.Equal(StoreRedis, cfg.Store.Driver)
	a.Equal("redis:6379", cfg.Redis.Addr)
	a.Equal(2, cfg.Redis.DB)
	a.Equal("cardroom_actions", cfg.Redis.ActionQueue, "defaults survive a partial file")
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal("debug", cfg.Log.Level)
	a.Equal(60, cfg.Game.DefaultTurnLimit)

	// ensure that it's only loaded once
	_ = os.Setenv("CARDROOM_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func TestDefaults(t *testing.T) {
	defer util.SetEnv("CARDROOM_CONFIG_FILE", "testdata/missing.yaml")()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, DefaultConfig().Addr, cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "sql", cfg.MigrationsPath)
}

func TestLoad_env(t *testing.T) {
	defer util.SetEnv("CARDROOM_CONFIG_FILE", "testdata/missing.yaml")()
	defer util.SetEnv("CARDROOM_GAME_DEFAULT_TURN_LIMIT", "15")()
	defer util.SetEnv("CARDROOM_LOG_DISABLE_ACCESS_LOGS", "true")()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, 15, cfg.Game.DefaultTurnLimit)
	assert.True(t, cfg.Log.DisableAccessLogs)
}

func TestLoad_badDriver(t *testing.T) {
	defer util.SetEnv("CARDROOM_CONFIG_FILE", "testdata/bad_driver.yaml")()

	assert.EqualError(t, Load(), "store.driver must be one of memory, redis or postgres")
}
