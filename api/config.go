package api

import (
	"sync"
	"time"

	"github.com/jsaveker/fork-it-app/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	SessionConfig
}

type StorageConfig struct {
	// Backend selects the key-value store: redis, dynamo or memory.
	Backend            string
	RedisAddress       string
	TableNameSessions  string
	CallTimeoutSeconds int
}

type ServerConfig struct {
	Port int
}

type SessionConfig struct {
	// TTLHours is the session lifetime; every save pushes expiry out by
	// this much again. Overridable via the TTL environment variable.
	TTLHours int
}

var settingsOnce sync.Once

func ReadConfig() *Config {
	// The session lifetime can be set through a bare TTL environment
	// variable in addition to the config file key.
	_ = viper.BindEnv("session.ttlHours", "TTL")

	var conf = &Config{
		StorageConfig: StorageConfig{
			Backend:            getStringOrDefault("storage.backend", "redis"),
			RedisAddress:       getStringOrDefault("storage.redisAddress", "localhost:6379"),
			TableNameSessions:  getStringOrDefault("storage.tableNameSessions", "ForkItSessions"),
			CallTimeoutSeconds: getIntOrDefault("storage.callTimeoutSeconds", 5),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
		SessionConfig: SessionConfig{
			TTLHours: getIntOrDefault("session.ttlHours", 24),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

// SessionTTL is the configured session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// StoreCallTimeout bounds individual key-value store calls.
func (c *Config) StoreCallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
