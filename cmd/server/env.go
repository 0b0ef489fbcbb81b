package main

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envConfig holds the deployment toggles read from the environment.
type envConfig struct {
	DeployEnv        string `env:"DEPLOY_ENV"`
	EnableAdminHTTP  *bool  `env:"MONUMENT_ENABLE_ADMIN_HTTP"`
	IndexBackend     string `env:"MONUMENT_INDEX_BACKEND" envDefault:"sqlite"`
	DisableDB        bool   `env:"MONUMENT_DISABLE_DB"`
	MetricsNamespace string `env:"MONUMENT_METRICS_NAMESPACE" envDefault:"monument"`
}

func parseEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.IndexBackend = strings.ToLower(strings.TrimSpace(cfg.IndexBackend))
	return cfg, nil
}

// adminHTTP defaults to on outside staging and production.
func (c envConfig) adminHTTP() bool {
	if c.EnableAdminHTTP != nil {
		return *c.EnableAdminHTTP
	}
	switch strings.ToLower(strings.TrimSpace(c.DeployEnv)) {
	case "staging", "production":
		return false
	default:
		return true
	}
}
