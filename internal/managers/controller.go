package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kwiles/skylight/internal/controllers/mqttpub"
	"github.com/kwiles/skylight/internal/controllers/restserver"
	"github.com/kwiles/skylight/internal/state"
	"github.com/kwiles/skylight/internal/types"
	"github.com/kwiles/skylight/pkg/config"
	"go.uber.org/zap"
)

// Controller is the common surface of output controller backends.
type Controller interface {
	StartController() error

	// Publish delivers one computed reading to the controller.
	Publish(types.Reading)
}

// ControllerManager builds the configured controllers and fans readings
// out to them from the distributor channel.
type ControllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	distributor chan types.Reading
	logger      *zap.SugaredLogger
	controllers []Controller
}

// NewControllerManager creates a controller for every configured entry
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, cfgData *config.ConfigData, distributor chan types.Reading, states *state.Store, location *state.LocationContext, readiness *state.Readiness, logger *zap.SugaredLogger) (*ControllerManager, error) {
	cm := &ControllerManager{
		ctx:         ctx,
		wg:          wg,
		distributor: distributor,
		logger:      logger,
	}

	for _, cc := range cfgData.Controllers {
		controller, err := cm.createController(cc, cfgData, states, location, readiness)
		if err != nil {
			return nil, fmt.Errorf("error creating %s controller: %w", cc.Type, err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

func (cm *ControllerManager) createController(cc config.ControllerData, cfgData *config.ConfigData, states *state.Store, location *state.LocationContext, readiness *state.Readiness) (Controller, error) {
	switch cc.Type {
	case "rest":
		return restserver.NewController(cm.ctx, cm.wg, *cc.REST, cfgData.Sensors, states, location, readiness, cm.logger)
	case "mqtt":
		return mqttpub.NewController(cm.ctx, cm.wg, *cc.MQTT, cm.logger)
	default:
		return nil, fmt.Errorf("unknown controller type: %s", cc.Type)
	}
}

// StartControllers starts every controller and the reading fan-out loop.
func (cm *ControllerManager) StartControllers() error {
	for _, controller := range cm.controllers {
		if err := controller.StartController(); err != nil {
			return fmt.Errorf("error starting controller: %w", err)
		}
	}
	cm.logger.Infof("started %d controllers", len(cm.controllers))

	cm.wg.Add(1)
	go cm.distribute()

	return nil
}

// distribute drains the reading channel even when no controllers are
// configured, so sensors never block on a full channel.
func (cm *ControllerManager) distribute() {
	defer cm.wg.Done()
	for {
		select {
		case <-cm.ctx.Done():
			return
		case r := <-cm.distributor:
			for _, controller := range cm.controllers {
				controller.Publish(r)
			}
		}
	}
}
