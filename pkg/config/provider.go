package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Calculation modes supported by illuminance sensors.
const (
	ModeNormal     = "normal"
	ModeSimple     = "simple"
	ModeIrradiance = "irradiance"
)

// Defaults and bounds for sensor configuration.
const (
	DefaultFallback     = 10.0
	MinFallback         = 1.0
	MaxFallback         = 10.0
	DefaultPollInterval = 5 * time.Minute
	MinPollInterval     = 5 * time.Minute
	DefaultStartupGrace = time.Minute
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetLocation() (*LocationData, error)
	GetSensors() ([]SensorData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	App         AppData          `json:"app,omitempty"`
	Location    LocationData     `json:"location"`
	Sensors     []SensorData     `json:"sensors"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// AppData holds process-wide settings
type AppData struct {
	StartupGrace string `json:"startup_grace,omitempty"`
}

// StartupGraceDuration returns the parsed startup grace period
func (a AppData) StartupGraceDuration() time.Duration {
	if a.StartupGrace == "" {
		return DefaultStartupGrace
	}
	d, err := time.ParseDuration(a.StartupGrace)
	if err != nil {
		return DefaultStartupGrace
	}
	return d
}

// LocationData holds the observer position used for all solar calculations
type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation,omitempty"` // meters above sea level
}

// SensorData holds configuration for a single illuminance sensor.
// Sensors are immutable after creation; changing one means recreating it.
type SensorData struct {
	Name          string  `json:"name"`
	UniqueID      string  `json:"unique_id,omitempty"`
	WeatherEntity string  `json:"weather_entity,omitempty"`
	Mode          string  `json:"mode,omitempty"`
	Fallback      float64 `json:"fallback,omitempty"`
	PollInterval  string  `json:"poll_interval,omitempty"`
}

// PollIntervalDuration returns the parsed poll interval. Call only after
// the config has been validated.
func (s SensorData) PollIntervalDuration() time.Duration {
	if s.PollInterval == "" {
		return DefaultPollInterval
	}
	d, err := time.ParseDuration(s.PollInterval)
	if err != nil {
		return DefaultPollInterval
	}
	return d
}

// ControllerData holds the configuration for output controllers
type ControllerData struct {
	Type string          `json:"type,omitempty"`
	REST *RESTServerData `json:"rest,omitempty"`
	MQTT *MQTTData       `json:"mqtt,omitempty"`
}

// RESTServerData configures the HTTP surface
type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

// MQTTData configures the MQTT reading publisher
type MQTTData struct {
	Broker      string `json:"broker"`
	TopicPrefix string `json:"topic_prefix,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// normalizeConfig applies defaults and validates a loaded configuration
// in place. Both providers run it before returning config data.
func normalizeConfig(cfg *ConfigData) error {
	if cfg.Location.Latitude < -90 || cfg.Location.Latitude > 90 {
		return fmt.Errorf("location latitude %v out of range [-90, 90]", cfg.Location.Latitude)
	}
	if cfg.Location.Longitude < -180 || cfg.Location.Longitude > 180 {
		return fmt.Errorf("location longitude %v out of range [-180, 180]", cfg.Location.Longitude)
	}

	if cfg.App.StartupGrace != "" {
		if _, err := time.ParseDuration(cfg.App.StartupGrace); err != nil {
			return fmt.Errorf("invalid startup_grace: %w", err)
		}
	}

	seen := make(map[string]bool)
	for i := range cfg.Sensors {
		s := &cfg.Sensors[i]
		if err := normalizeSensor(s); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate sensor name %q", s.Name)
		}
		seen[s.Name] = true
	}

	for _, ctrl := range cfg.Controllers {
		switch ctrl.Type {
		case "rest":
			if ctrl.REST == nil {
				return fmt.Errorf("rest controller missing configuration")
			}
		case "mqtt":
			if ctrl.MQTT == nil {
				return fmt.Errorf("mqtt controller missing configuration")
			}
			if ctrl.MQTT.Broker == "" {
				return fmt.Errorf("mqtt controller missing broker")
			}
		default:
			return fmt.Errorf("unsupported controller type: %s", ctrl.Type)
		}
	}

	return nil
}

func normalizeSensor(s *SensorData) error {
	if s.Name == "" {
		return fmt.Errorf("sensor missing name")
	}
	if s.UniqueID == "" {
		s.UniqueID = uuid.New().String()
	}

	switch s.Mode {
	case "":
		s.Mode = ModeNormal
	case ModeNormal, ModeSimple, ModeIrradiance:
	default:
		return fmt.Errorf("sensor [%s] has unsupported mode %q", s.Name, s.Mode)
	}

	if s.Fallback == 0 {
		s.Fallback = DefaultFallback
	}
	if s.Fallback < MinFallback || s.Fallback > MaxFallback {
		return fmt.Errorf("sensor [%s] fallback %v out of range [%v, %v]",
			s.Name, s.Fallback, MinFallback, MaxFallback)
	}

	if s.PollInterval != "" {
		d, err := time.ParseDuration(s.PollInterval)
		if err != nil {
			return fmt.Errorf("sensor [%s] has invalid poll_interval: %w", s.Name, err)
		}
		if d < MinPollInterval {
			return fmt.Errorf("sensor [%s] poll_interval %v below minimum %v",
				s.Name, d, MinPollInterval)
		}
	}

	return nil
}
