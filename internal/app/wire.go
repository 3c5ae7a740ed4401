package app

import (
	"go.uber.org/zap"

	"oxy/internal/domain"
	"oxy/internal/logging"
	"oxy/internal/metrics"
	"oxy/internal/services/identity"
	"oxy/internal/status"
)

// Wire bundles the services and collaborators one process needs.
type Wire struct {
	Config   Config
	Role     domain.Role
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Identity domain.IdentityService
	// Admin is nil when no metrics address is configured.
	Admin *status.Server
}

// NewWire validates cfg and constructs the dependency graph.
func NewWire(cfg Config) (*Wire, error) {
	role, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	log, err := logging.New(cfg.LogLevel, cfg.DevLog)
	if err != nil {
		return nil, err
	}

	w := &Wire{
		Config:   cfg,
		Role:     role,
		Logger:   log.With(zap.Stringer("mode", role)),
		Metrics:  metrics.New(),
		Identity: identity.New(),
	}
	if cfg.MetricsAddr != "" {
		w.Admin = status.NewServer(role, w.Metrics, w.Logger)
	}
	return w, nil
}
