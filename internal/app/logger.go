// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/image-proxy/config"
	"github.com/guttosm/image-proxy/internal/logger"
)

// InitializeLogger configures the global zerolog logger.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
