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

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/yeremiapane/dinein-backend/config"
	"github.com/yeremiapane/dinein-backend/database"
	"github.com/yeremiapane/dinein-backend/kds"
	"github.com/yeremiapane/dinein-backend/router"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

func main() {
	if err := run(); err != nil {
		utils.ErrorLogger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.String("config", "", "path to a YAML config file")
	port := pflag.String("port", "", "listen port, overrides PORT")
	migrateOnly := pflag.Bool("migrate-only", false, "run migrations and the superadmin seed, then exit")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *port != "" {
		cfg.Port = *port
	}

	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedSuperAdmin(db, cfg.SuperadminEmail, cfg.SuperadminPassword); err != nil {
		return err
	}
	if *migrateOnly {
		utils.InfoLogger.Info("Migration finished")
		return nil
	}

	if cfg.MidtransServerKey == "" {
		utils.ErrorLogger.Warn("MIDTRANS_SERVER_KEY is not set, card payments will fail")
	}

	hub := kds.NewHub()
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, cfg.CustomerJWTTTL)
	svc := services.NewContainer(db, services.Options{
		Tokens: tokens,
		Gateway: services.NewMidtransGateway(services.MidtransConfig{
			ServerKey:    cfg.MidtransServerKey,
			ClientKey:    cfg.MidtransClientKey,
			IsProduction: cfg.MidtransProduction(),
		}),
		Notifier: hub,
		OTPTTL:   cfg.OTPTTL,
		Currency: cfg.Currency,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(svc, hub, tokens, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Infof("Server running on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-quit:
	}

	utils.InfoLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
