// @title        ROSE Wallet API
// @version      1.0
// @description  Local wallet service for the Oasis network: key import, balances and the wallet coordinator.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/AlexZinkM/rose-wallet/internal/api"
	"github.com/AlexZinkM/rose-wallet/internal/client"
	"github.com/AlexZinkM/rose-wallet/internal/config"
	"github.com/AlexZinkM/rose-wallet/internal/coordinator"
	"github.com/AlexZinkM/rose-wallet/internal/handler"
	"github.com/AlexZinkM/rose-wallet/internal/logging"
	"github.com/AlexZinkM/rose-wallet/internal/metrics"
	"github.com/AlexZinkM/rose-wallet/internal/ratelimiter"
	"github.com/AlexZinkM/rose-wallet/internal/security"
	"github.com/AlexZinkM/rose-wallet/internal/state"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	networks, err := config.LoadNetworks(cfg.NetworksFile)
	if err != nil {
		return err
	}
	network, err := networks.Get(cfg.Network)
	if err != nil {
		return err
	}

	staking, err := client.NewStakingClient(cfg.Backend, network, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	rates := client.NewCoinGeckoClient(cfg.RequestTimeout)

	keystorePath := config.GetWalletFilePath()
	if keystorePath != "" && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := config.PromptForPassword(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	store := state.NewStore()
	coord := coordinator.New(store, staking, logger, coordinator.WithRecorder(m))

	coordDone := make(chan error, 1)
	go func() { coordDone <- coord.Run(ctx) }()

	wallet := handler.NewWalletHandler(coord, store, rates, logger, handler.Options{
		Network:      cfg.Network,
		KeystorePath: keystorePath,
		ImportCount:  cfg.ImportAccountsCount,
	})
	router := api.SetupRouter(api.Options{
		Wallet:  wallet,
		Metrics: m,
		Limiter: ratelimiter.New(cfg.RateLimitRPS, cfg.RateLimitBurst, 0),
		Security: security.CSPOptions{
			Extension:  cfg.Extension,
			ConnectSrc: networks.Origins(),
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("network", cfg.Network),
			zap.String("backend", staking.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		stop()
		<-coordDone
		return fmt.Errorf("failed to serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shut down http server", zap.Error(err))
	}
	if err := <-coordDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
