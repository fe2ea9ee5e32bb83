package utils

import (
	"log"
	"sync"

	"vehicleservice/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. Use GetLogger; it is built on first use.
var (
	Logger     *zap.Logger
	loggerOnce sync.Once
)

func buildLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if !config.IsProduction() {
		level = zapcore.DebugLevel
	}
	if raw := config.AppConfig.LogLevel; raw != "" {
		parsed, err := zapcore.ParseLevel(raw)
		if err != nil {
			log.Printf("Ignoring invalid LOG_LEVEL %q: %v", raw, err)
		} else {
			level = parsed
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.InitialFields = map[string]interface{}{"service": "vehicleservice", "env": config.GetEnv()}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}

// GetLogger returns the global logger, building it on first call.
func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		if Logger == nil {
			Logger = buildLogger()
		}
	})
	return Logger
}

// ComponentLogger tags log lines with the emitting component.
func ComponentLogger(component string) *zap.Logger {
	return GetLogger().Named(component)
}
