package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		App struct {
			StartupGrace string `yaml:"startup_grace,omitempty"`
		} `yaml:"app,omitempty"`
		Location struct {
			Latitude  float64 `yaml:"latitude"`
			Longitude float64 `yaml:"longitude"`
			Elevation float64 `yaml:"elevation,omitempty"`
		} `yaml:"location"`
		Sensors []struct {
			Name          string  `yaml:"name"`
			UniqueID      string  `yaml:"unique_id,omitempty"`
			WeatherEntity string  `yaml:"weather_entity,omitempty"`
			Mode          string  `yaml:"mode,omitempty"`
			Fallback      float64 `yaml:"fallback,omitempty"`
			PollInterval  string  `yaml:"poll_interval,omitempty"`
		} `yaml:"sensors"`
		Controllers []struct {
			Type string `yaml:"type"`
			REST *struct {
				ListenAddr string `yaml:"listen_addr,omitempty"`
				Port       int    `yaml:"port,omitempty"`
			} `yaml:"rest,omitempty"`
			MQTT *struct {
				Broker      string `yaml:"broker"`
				TopicPrefix string `yaml:"topic_prefix,omitempty"`
				ClientID    string `yaml:"client_id,omitempty"`
				Username    string `yaml:"username,omitempty"`
				Password    string `yaml:"password,omitempty"`
			} `yaml:"mqtt,omitempty"`
		} `yaml:"controllers,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		App: AppData{StartupGrace: yamlConfig.App.StartupGrace},
		Location: LocationData{
			Latitude:  yamlConfig.Location.Latitude,
			Longitude: yamlConfig.Location.Longitude,
			Elevation: yamlConfig.Location.Elevation,
		},
		Sensors:     make([]SensorData, len(yamlConfig.Sensors)),
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, sensor := range yamlConfig.Sensors {
		config.Sensors[i] = SensorData{
			Name:          sensor.Name,
			UniqueID:      sensor.UniqueID,
			WeatherEntity: sensor.WeatherEntity,
			Mode:          sensor.Mode,
			Fallback:      sensor.Fallback,
			PollInterval:  sensor.PollInterval,
		}
	}

	for i, controller := range yamlConfig.Controllers {
		converted := ControllerData{Type: controller.Type}
		if controller.REST != nil {
			converted.REST = &RESTServerData{
				ListenAddr: controller.REST.ListenAddr,
				Port:       controller.REST.Port,
			}
		}
		if controller.MQTT != nil {
			converted.MQTT = &MQTTData{
				Broker:      controller.MQTT.Broker,
				TopicPrefix: controller.MQTT.TopicPrefix,
				ClientID:    controller.MQTT.ClientID,
				Username:    controller.MQTT.Username,
				Password:    controller.MQTT.Password,
			}
		}
		config.Controllers[i] = converted
	}

	if err := normalizeConfig(config); err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// GetLocation returns the configured location
func (y *YAMLProvider) GetLocation() (*LocationData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	loc := y.config.Location
	return &loc, nil
}

// GetSensors returns sensor configurations
func (y *YAMLProvider) GetSensors() ([]SensorData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Sensors, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Controllers, nil
}

func (y *YAMLProvider) ensureLoaded() error {
	if y.config != nil {
		return nil
	}
	_, err := y.LoadConfig()
	return err
}

// IsReadOnly returns true since YAML files are read-only in this implementation
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}
