package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EpicMandM/dewi-reservations/internal/app"
	"github.com/EpicMandM/dewi-reservations/internal/config"
	"github.com/EpicMandM/dewi-reservations/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ctx        context.Context
	logger     *logger.Logger
	infraCfg   *config.Config
	featureCfg *config.FeatureConfig
	server     *http.Server
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &App{
		ctx:    ctx,
		logger: logger.New(),
	}

	if err := a.run(); err != nil {
		a.logger.Error("Application error", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func (a *App) run() error {
	if err := a.initialize(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
	}
	return a.serve(ln)
}

// initialize loads all configuration and builds the server. Nothing is bound
// until it succeeds.
func (a *App) initialize() error {
	envPath := getEnvOrDefault("ENV_FILE", ".env")
	infraCfg, err := config.LoadWithFile(envPath)
	if err != nil {
		a.logger.Error("Failed to load configuration", logger.Error(err), logger.F("path", envPath))
		return err
	}
	a.infraCfg = infraCfg

	configPath := getEnvOrDefault("CONFIG_PATH", "./data/feature_config.toml")
	featureCfg, err := config.LoadFeatureConfig(configPath)
	if err != nil {
		a.logger.Error("Failed to load feature config", logger.Error(err), logger.F("path", configPath))
		return err
	}
	a.featureCfg = featureCfg

	application, err := app.New(infraCfg, featureCfg, a.logger)
	if err != nil {
		a.logger.Error("Failed to initialize application", logger.Error(err))
		return err
	}
	a.server = application.Server()

	a.logger.Info("Configuration loaded",
		logger.F("config", infraCfg.String()),
		logger.F("timezone", featureCfg.Calendar.Timezone))
	return nil
}

// serve runs the server on ln until a.ctx is cancelled, then drains
// in-flight requests for up to shutdownTimeout.
func (a *App) serve(ln net.Listener) error {
	g, ctx := errgroup.WithContext(a.ctx)

	g.Go(func() error {
		a.logger.Info("Starting server", logger.Action("serve"), logger.F("addr", ln.Addr().String()))
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		a.logger.Info("Shutting down server", logger.Action("shutdown"))
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		a.logger.Info("Server stopped", logger.Action("shutdown"), logger.Status("done"))
		return nil
	})

	return g.Wait()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
