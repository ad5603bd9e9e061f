package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/api"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/gateway"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/logging"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/metrics"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/sui"
)

type config struct {
	LogFormat logging.LogFormat `envconfig:"LOG_FORMAT" default:"text"`
	Server    api.Config
	Gateway   gateway.Config
	Sui       sui.Config
	Metrics   metrics.Config
}

func newConfig() (config, error) {
	var cfg config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return config{}, fmt.Errorf("failed to process env var: %w", err)
	}
	return cfg, nil
}
