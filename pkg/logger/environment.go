package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Environment names a deployment environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Staging     Environment = "staging"
)

// ParseEnvironment accepts the full names and the short forms dev, prod and
// stage. Anything else is an error.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Development), "dev", "":
		return Development, nil
	case string(Production), "prod":
		return Production, nil
	case string(Staging), "stage":
		return Staging, nil
	default:
		return "", fmt.Errorf("unknown environment %q", s)
	}
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
