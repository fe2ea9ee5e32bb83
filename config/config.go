package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// Storage.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	StoreDriver  string `mapstructure:"STORE_DRIVER"`

	// Redis configuration.
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB     int           `mapstructure:"REDIS_QUEUE_DB"`
	SlotCacheEnabled bool          `mapstructure:"SLOT_CACHE_ENABLED"`
	SlotCacheTTL     time.Duration `mapstructure:"SLOT_CACHE_TTL"`
	JobQueueEnabled  bool          `mapstructure:"JOB_QUEUE_ENABLED"`

	// Scheduling and payments.
	CardGatewayDelay        time.Duration `mapstructure:"CARD_GATEWAY_DELAY"`
	CardFailureRate         float64       `mapstructure:"CARD_FAILURE_RATE"`
	OrphanCleanupCron       string        `mapstructure:"ORPHAN_CLEANUP_CRON"`
	DefaultMaxDailyWorkload int           `mapstructure:"DEFAULT_MAX_DAILY_WORKLOAD"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "vehicleservice")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SLOT_CACHE_ENABLED", true)
	viper.SetDefault("SLOT_CACHE_TTL", "5m")
	viper.SetDefault("JOB_QUEUE_ENABLED", true)
	viper.SetDefault("CARD_GATEWAY_DELAY", "1s")
	viper.SetDefault("CARD_FAILURE_RATE", 0.05)
	viper.SetDefault("ORPHAN_CLEANUP_CRON", "@every 6h")
	viper.SetDefault("DEFAULT_MAX_DAILY_WORKLOAD", 6)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesMongo reports whether repositories should be backed by MongoDB.
func UsesMongo() bool {
	return AppConfig.StoreDriver != "memory"
}

// Location resolves the service centre's wall-clock timezone. Booking dates are
// bucketed by calendar day in this location.
func Location() *time.Location {
	name := AppConfig.Timezone
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("unknown TIMEZONE %q, falling back to local time: %v", name, err)
		return time.Local
	}
	return loc
}
