package main

import (
	"context"

	suisdk "github.com/block-vision/sui-go-sdk/sui"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/api"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/gateway"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/graceful"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/logging"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/metrics"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/platform"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/sui"
)

func main() {
	cfg, err := newConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := logging.NewLogger(cfg.LogFormat)

	ctx, stop := graceful.WithSignals(context.Background(), logger)
	defer stop()

	metricsServer := metrics.StartMetricsServer(cfg.Metrics, []string{
		metrics.ServiceHTTP,
		metrics.ServiceTransfer,
		metrics.ServiceGateway,
	}, logger)
	defer func() {
		if metricsServer != nil {
			if err := metricsServer.Stop(context.Background()); err != nil {
				logger.Errorf("failed to stop metrics server: %v", err)
			}
		}
	}()

	var broadcaster api.Broadcaster
	rpcURL := cfg.Sui.RPCURL
	if cfg.Gateway.URL != "" {
		gw, err := gateway.NewClient(cfg.Gateway, metrics.NewGatewayMetrics(), logger)
		if err != nil {
			logger.Fatalf("failed to initialize gateway client: %v", err)
		}
		broadcaster = gw
		if rpcURL == "" {
			rpcURL = gw.NodeURL(sui.ChainName)
			logger.Info("routing sui node calls through the gateway")
		}
	}
	if rpcURL == "" {
		logger.Fatal("either SUI_RPC_URL or GATEWAY_URL must be set")
	}

	rpc := suisdk.NewSuiClient(rpcURL)
	suiClient := sui.NewClient(rpc)
	suiNetwork := sui.NewNetwork(
		suiClient,
		sui.NewExecutor(rpc, suiClient, cfg.Sui.GasBudget, logger),
		metrics.NewTransferMetrics(),
		logger,
	)

	registry, err := platform.NewRegistry(suiNetwork)
	if err != nil {
		logger.Fatalf("failed to initialize platform registry: %v", err)
	}
	logger.Infof("platforms enabled: %v", registry.Chains())

	srv := api.NewServer(cfg.Server, registry, broadcaster, []echo.MiddlewareFunc{metrics.HTTPMiddleware()}, logger)

	err = srv.Start(ctx)
	if err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
