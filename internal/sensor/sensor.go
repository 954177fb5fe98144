// Package sensor implements the illuminance estimation core: the per-sensor
// estimation orchestrator, the sun-ramp day cache, and the upstream
// condition classifier. One Sensor corresponds to one configured entry and
// owns all of its mutable state.
package sensor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/kwiles/skylight/internal/state"
	"github.com/kwiles/skylight/internal/types"
	"github.com/kwiles/skylight/pkg/astro"
	"github.com/kwiles/skylight/pkg/config"
	"go.uber.org/zap"
)

// nighttimeFloor is the fixed value reported in simple mode when the sun
// factor is zero. Kept at 10 for compatibility with long-standing consumers.
const nighttimeFloor = 10

// Sensor estimates outdoor illuminance for one configured location and
// optional upstream weather entity. Updates run on a poll ticker and
// immediately after upstream state changes; both paths serialize through
// the per-instance mutex.
type Sensor struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	cfg         config.SensorData
	location    *state.LocationContext
	states      *state.Store
	readiness   *state.Readiness
	distributor chan<- types.Reading
	logger      *zap.SugaredLogger

	mu          sync.Mutex
	cls         *classifier
	sun         *sunCache
	unsubscribe func()
}

// New creates a sensor from a validated configuration entry.
func New(ctx context.Context, wg *sync.WaitGroup, cfg config.SensorData, location *state.LocationContext, states *state.Store, readiness *state.Readiness, distributor chan<- types.Reading, logger *zap.SugaredLogger) *Sensor {
	sensorLogger := logger.Named("sensor").With("sensor", cfg.Name)
	return &Sensor{
		ctx:         ctx,
		wg:          wg,
		cfg:         cfg,
		location:    location,
		states:      states,
		readiness:   readiness,
		distributor: distributor,
		logger:      sensorLogger,
		cls:         newClassifier(cfg.WeatherEntity, cfg.Fallback, readiness.Started, sensorLogger),
	}
}

// Name returns the configured sensor name.
func (s *Sensor) Name() string {
	return s.cfg.Name
}

// Start subscribes to the upstream entity and launches the poll loop.
func (s *Sensor) Start() error {
	s.logger.Infow("starting illuminance sensor",
		"mode", s.cfg.Mode,
		"entity", s.cfg.WeatherEntity,
		"interval", s.cfg.PollIntervalDuration())

	if s.cfg.WeatherEntity != "" {
		// Classify whatever upstream state already exists so the first
		// poll doesn't have to defer unnecessarily.
		s.mu.Lock()
		if st, ok := s.states.Get(s.cfg.WeatherEntity); ok {
			s.cls.resolve(&st)
		}
		s.mu.Unlock()
		s.unsubscribe = s.states.Subscribe(s.cfg.WeatherEntity, s.onUpstreamChange)
	}

	s.wg.Add(1)
	go s.pollLoop()
	return nil
}

// onUpstreamChange reacts to an upstream state transition with an
// immediate out-of-cycle update. Once the entity is classified, updates
// only fire when the raw value actually changed.
func (s *Sensor) onUpstreamChange(old, new *types.UpstreamState) {
	s.mu.Lock()
	if s.cls.pending() && new != nil {
		s.cls.resolve(new)
	}
	pending := s.cls.pending()
	s.mu.Unlock()

	if pending || old == nil || new == nil || new.Value != old.Value {
		s.runUpdate()
	}
}

func (s *Sensor) pollLoop() {
	defer s.wg.Done()
	defer func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	}()

	s.runUpdate()

	ticker := time.NewTicker(s.cfg.PollIntervalDuration())
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runUpdate()
		}
	}
}

func (s *Sensor) runUpdate() {
	reading, ok := s.Update(time.Now())
	if !ok {
		return
	}
	select {
	case s.distributor <- reading:
	default:
		s.logger.Warnf("reading distributor full, dropping reading")
	}
}

// Update runs one estimation cycle at the given instant. The second return
// is false when the update is skipped: during startup while the upstream
// entity cannot be classified yet. The previous value simply stands.
func (s *Sensor) Update(now time.Time) (types.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.WeatherEntity != "" && s.cls.pending() && !s.readiness.Started() {
		return types.Reading{}, false
	}

	loc := s.location.Get()
	unit := types.UnitLux
	var raw float64

	switch s.cfg.Mode {
	case config.ModeSimple:
		if !s.sun.validFor(now) {
			s.sun = computeSunCache(now, loc)
		}
		factor := s.sun.factor(now)
		if factor == 0 {
			// Nighttime floor; the divisor is irrelevant here.
			s.logger.Debugf("updating -> %d", nighttimeFloor)
			return types.Reading{
				SensorName:  s.cfg.Name,
				Value:       nighttimeFloor,
				Unit:        unit,
				Description: "nighttime",
				Timestamp:   now,
			}, true
		}
		raw = 10000 * factor
	default:
		elevation := astro.SolarElevation(now, loc.Latitude, loc.Longitude)
		raw = astro.ClearSkyLux(elevation)
		if s.cfg.Mode == config.ModeIrradiance {
			raw *= astro.LuxToIrradiance
			unit = types.UnitIrradiance
		}
	}

	sk, desc := s.cfg.Fallback, descNoWeatherData
	if s.cfg.WeatherEntity != "" {
		var upstream *types.UpstreamState
		if st, ok := s.states.Get(s.cfg.WeatherEntity); ok {
			upstream = &st
		}
		sk, desc = s.cls.resolve(upstream)
	}

	value := raw / sk
	if unit == types.UnitLux {
		value = math.Round(value)
	} else {
		value = math.Round(value*10) / 10
	}

	s.logger.Debugf("updating %s -> %.0f / %.2f = %.1f", desc, raw, sk, value)

	return types.Reading{
		SensorName:  s.cfg.Name,
		Value:       value,
		Unit:        unit,
		Description: desc,
		Timestamp:   now,
	}, true
}
