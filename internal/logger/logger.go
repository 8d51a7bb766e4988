// Package logger builds the application-wide zap logger.
package logger

import (
	"go.uber.org/zap"
)

// New constructs a zap logger for the given environment and installs it as
// the process-wide default. Production mode emits JSON, everything else uses
// the human-readable development encoder.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
