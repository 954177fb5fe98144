package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/kwiles/skylight/internal/state"
	"github.com/kwiles/skylight/internal/types"
	"github.com/kwiles/skylight/pkg/config"
	"go.uber.org/zap"
)

// Controller is the REST server controller. It exposes the latest computed
// readings, accepts upstream weather state pushed by the host, and allows
// the observer location to be updated at runtime.
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	Sensors    []config.SensorData
	states     *state.Store
	location   *state.LocationContext
	readiness  *state.Readiness
	logger     *zap.SugaredLogger
	handlers   *Handlers

	mu     sync.RWMutex
	latest map[string]types.Reading
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, sensors []config.SensorData, states *state.Store, location *state.LocationContext, readiness *state.Readiness, logger *zap.SugaredLogger) (*Controller, error) {
	if rc.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		Sensors:    sensors,
		states:     states,
		location:   location,
		readiness:  readiness,
		logger:     logger,
		latest:     make(map[string]types.Reading),
	}

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = handlers.CompressHandler(handlers.RecoveryHandler()(router))

	return ctrl, nil
}

// Publish records a computed reading so the API can serve it.
func (c *Controller) Publish(r types.Reading) {
	c.mu.Lock()
	c.latest[r.SensorName] = r
	c.mu.Unlock()
}

func (c *Controller) latestReading(sensorName string) (types.Reading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.latest[sensorName]
	return r, ok
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infof("starting REST server on %s", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("shutting down the REST server")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/sensors", c.handlers.GetSensors).Methods(http.MethodGet)
	router.HandleFunc("/api/sensors/{name}", c.handlers.GetSensor).Methods(http.MethodGet)

	router.HandleFunc("/api/states/{entity}", c.handlers.GetState).Methods(http.MethodGet)
	router.HandleFunc("/api/states/{entity}", c.handlers.PutState).Methods(http.MethodPut)
	router.HandleFunc("/api/states/{entity}", c.handlers.DeleteState).Methods(http.MethodDelete)

	router.HandleFunc("/api/location", c.handlers.GetLocation).Methods(http.MethodGet)
	router.HandleFunc("/api/location", c.handlers.PutLocation).Methods(http.MethodPut)

	router.HandleFunc("/api/health", c.handlers.GetHealth).Methods(http.MethodGet)

	return router
}

// sensorConfig returns the configuration for a sensor by name.
func (c *Controller) sensorConfig(name string) (config.SensorData, bool) {
	for _, s := range c.Sensors {
		if s.Name == name {
			return s, true
		}
	}
	return config.SensorData{}, false
}
