// Package config defines the typed configuration structures shared across
// the application. Loading is handled by internal/infrastructure/config.
package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// VendorConfig holds the credentials and endpoint for the upstream tracker
// platform. Timeouts are in seconds; device listing calls need a longer
// budget than single command sends.
type VendorConfig struct {
	APIEndpoint    string `mapstructure:"api_endpoint"`
	AppID          int    `mapstructure:"app_id"`
	AppKey         string `mapstructure:"app_key"`
	UserID         int    `mapstructure:"user_id"`
	CommandTimeout int    `mapstructure:"command_timeout"`
	ListTimeout    int    `mapstructure:"list_timeout"`
}

// DispatchConfig tunes batch command fan-out across devices.
type DispatchConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkDelayMS int `mapstructure:"chunk_delay_ms"`
	OnlineTTL    int `mapstructure:"online_cache_seconds"`
}

type SchedulerConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	ReconcileInterval int  `mapstructure:"reconcile_interval_minutes"`
}
