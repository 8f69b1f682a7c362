package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	AdminID     string

	PostgresDSN string
	LevelDBPath string
	StoreDriver string // postgres, leveldb, memory

	CredentialBaseSerial uint64

	OutboxBatchSize    int
	OutboxPollInterval string
}

// Load reads configuration from an optional config file and the environment.
// Environment variables win over file values.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile("config/config.yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("service_name", "tally")
	v.SetDefault("http_port", "8080")
	v.SetDefault("admin_id", "")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("leveldb_path", "data/ledger")
	v.SetDefault("store_driver", "memory")
	v.SetDefault("credential_base_serial", 1)
	v.SetDefault("outbox_batch_size", 100)
	v.SetDefault("outbox_poll_interval", "5s")

	// The config file is optional; env-only deployments are the norm.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !strings.Contains(err.Error(), "no such file") {
			return Config{}, err
		}
	}

	return Config{
		ServiceName:          v.GetString("service_name"),
		HTTPPort:             v.GetString("http_port"),
		AdminID:              strings.TrimSpace(v.GetString("admin_id")),
		PostgresDSN:          v.GetString("postgres_dsn"),
		LevelDBPath:          v.GetString("leveldb_path"),
		StoreDriver:          strings.ToLower(strings.TrimSpace(v.GetString("store_driver"))),
		CredentialBaseSerial: v.GetUint64("credential_base_serial"),
		OutboxBatchSize:      v.GetInt("outbox_batch_size"),
		OutboxPollInterval:   v.GetString("outbox_poll_interval"),
	}, nil
}
