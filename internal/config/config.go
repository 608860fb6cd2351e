package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// CORSOrigin is the single browser origin allowed to call the API.
	CORSOrigin string `mapstructure:"cors_origin"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// Cache drivers.
const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
	CacheDriverNone   = "none"
)

// CacheConfig selects and tunes the key-value store behind the task cache.
type CacheConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=redis memory none"`
	// TTL applies to every cached entry.
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
	// OperationTimeout bounds each individual store call.
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"gt=0"`

	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
	RedisPoolSize int    `mapstructure:"redis_pool_size" validate:"gte=0"`

	MemoryCapacity int `mapstructure:"memory_capacity" validate:"gt=0"`
	MemoryShards   int `mapstructure:"memory_shards" validate:"gt=0"`
}
