// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
)

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP settings.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Metrics is exposed on /metrics.
	Metrics *metrics.Metrics
	// Modules contains all HTTP-facing modules.
	Modules []Module
}
