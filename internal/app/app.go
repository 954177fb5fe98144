// Package app wires configuration, state, sensors, and controllers into a
// running process.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kwiles/skylight/internal/log"
	"github.com/kwiles/skylight/internal/managers"
	"github.com/kwiles/skylight/internal/state"
	"github.com/kwiles/skylight/internal/types"
	"github.com/kwiles/skylight/pkg/config"
	"go.uber.org/zap"
)

// readingBuffer sizes the distributor channel; sensors drop sends rather
// than block when the consumer falls behind.
const readingBuffer = 64

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfgData, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	location := state.NewLocationContext(cfgData.Location)
	states := state.NewStore()
	readiness := &state.Readiness{}
	distributor := make(chan types.Reading, readingBuffer)

	cm, err := managers.NewControllerManager(ctx, &wg, cfgData, distributor, states, location, readiness, a.logger)
	if err != nil {
		return err
	}
	if err := cm.StartControllers(); err != nil {
		return err
	}

	sm, err := managers.NewSensorManager(ctx, &wg, cfgData.Sensors, location, states, readiness, distributor, a.logger)
	if err != nil {
		return err
	}
	if err := sm.StartSensors(); err != nil {
		return err
	}

	// After the grace period upstream entities that still have no usable
	// data stop being deferred and get classified on whatever they hold.
	grace := cfgData.App.StartupGraceDuration()
	graceTimer := time.AfterFunc(grace, func() {
		readiness.SetStarted()
		log.Infof("startup grace period (%v) elapsed", grace)
	})
	defer graceTimer.Stop()

	log.Info("application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()

	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
