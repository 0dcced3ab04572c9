package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Retention   RetentionConfig
	RemoteWrite RemoteWriteConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	URL            string
	MigrationsPath string
	MaxConnections int
	MaxIdleConns   int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// RetentionConfig holds per-signal pruning windows in days.
type RetentionConfig struct {
	LogsDays    int
	MetricsDays int
	TracesDays  int
}

type RemoteWriteConfig struct {
	URL           string
	TenantID      string
	TenantHeader  string
	AuthToken     string
	BatchSize     int
	FlushInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("OBSERVATORY")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.migrationspath", "migrations")
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.maxidleconns", 5)
	viper.SetDefault("auth.tokenttl", "30m")
	viper.SetDefault("ratelimit.perminute", 100)
	viper.SetDefault("ratelimit.burst", 20)
	viper.SetDefault("retention.logsdays", 30)
	viper.SetDefault("retention.metricsdays", 90)
	viper.SetDefault("retention.tracesdays", 14)
	viper.SetDefault("remotewrite.tenantheader", "X-Scope-OrgID")
	viper.SetDefault("remotewrite.batchsize", 1000)
	viper.SetDefault("remotewrite.flushinterval", "10s")
	viper.SetDefault("cors.allowedorigins", []string{"*"})

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Common deployment variables win over the config file.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if url := os.Getenv("REMOTE_WRITE_URL"); url != "" {
		cfg.RemoteWrite.URL = url
	}
	if token := os.Getenv("REMOTE_WRITE_AUTH_TOKEN"); token != "" {
		cfg.RemoteWrite.AuthToken = token
	}

	return &cfg, nil
}
