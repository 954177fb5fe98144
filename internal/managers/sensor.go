// Package managers builds and supervises the sensors and output
// controllers described by the configuration.
package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kwiles/skylight/internal/sensor"
	"github.com/kwiles/skylight/internal/state"
	"github.com/kwiles/skylight/internal/types"
	"github.com/kwiles/skylight/pkg/config"
	"go.uber.org/zap"
)

// SensorManager owns one sensor per configured entry.
type SensorManager struct {
	ctx     context.Context
	wg      *sync.WaitGroup
	logger  *zap.SugaredLogger
	sensors map[string]*sensor.Sensor
}

// NewSensorManager creates a sensor for every configured entry. The config
// is assumed validated; duplicate names were rejected at load time.
func NewSensorManager(ctx context.Context, wg *sync.WaitGroup, sensorConfigs []config.SensorData, location *state.LocationContext, states *state.Store, readiness *state.Readiness, distributor chan types.Reading, logger *zap.SugaredLogger) (*SensorManager, error) {
	if len(sensorConfigs) == 0 {
		return nil, fmt.Errorf("no sensors configured")
	}

	sm := &SensorManager{
		ctx:     ctx,
		wg:      wg,
		logger:  logger,
		sensors: make(map[string]*sensor.Sensor),
	}

	for _, sc := range sensorConfigs {
		s := sensor.New(ctx, wg, sc, location, states, readiness, distributor, logger)
		sm.sensors[sc.Name] = s
	}

	return sm, nil
}

// StartSensors starts every sensor's poll loop.
func (sm *SensorManager) StartSensors() error {
	for name, s := range sm.sensors {
		sm.logger.Infof("starting sensor [%s]", name)
		if err := s.Start(); err != nil {
			return fmt.Errorf("failed to start sensor [%s]: %w", name, err)
		}
	}
	sm.logger.Infof("started %d sensors", len(sm.sensors))
	return nil
}
