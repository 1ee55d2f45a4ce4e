package config

import (
	"cardroom-server/internal/util"
	"errors"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// store drivers
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config provides configuration for the card room
type Config struct {
	loaded         bool
	Addr           string `yaml:"addr"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Store          struct {
		Driver string `yaml:"driver"`
	} `yaml:"store"`
	Redis struct {
		Addr        string `yaml:"addr"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db"`
		Prefix      string `yaml:"prefix"`
		ActionQueue string `yaml:"actionQueue" envconfig:"action_queue"`
	} `yaml:"redis"`
	JWT struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Game struct {
		DefaultTurnLimit int `yaml:"defaultTurnLimit" envconfig:"default_turn_limit"`
	} `yaml:"game"`
}

var config Config

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() Config {
	cfg := Config{
		Addr:           ":5000",
		PGDSN:          "postgres://postgres:@localhost:5432/cardroom?sslmode=disable",
		MigrationsPath: "sql",
	}

	cfg.Store.Driver = StoreMemory
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Prefix = "cardroom:"
	cfg.Redis.ActionQueue = "cardroom_actions"
	cfg.JWT.PublicKey = ".keys/public.pem"
	cfg.JWT.PrivateKey = ".keys/private.key"
	cfg.Log.Level = "info"

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Values come from the defaults, then the config file if it exists, then the environment
func Load() error {
	// a missing .env file is fine
	_ = godotenv.Load()

	cfg := DefaultConfig()

	configFile := util.Getenv("CARDROOM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	case !os.IsNotExist(err):
		return err
	}

	if err := envconfig.Process("cardroom", &cfg); err != nil {
		return err
	}

	switch cfg.Store.Driver {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return errors.New("store.driver must be one of memory, redis or postgres")
	}

	cfg.loaded = true
	config = cfg
	return nil
}
