package utils

import "go.uber.org/zap"

// NewLogger - Development config (console, debug level) when debug, production (JSON, info) otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
