package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	location, err := s.GetLocation()
	if err != nil {
		return nil, fmt.Errorf("failed to load location: %w", err)
	}
	config.Location = *location

	sensors, err := s.GetSensors()
	if err != nil {
		return nil, fmt.Errorf("failed to load sensors: %w", err)
	}
	config.Sensors = sensors

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	var grace sql.NullString
	err = s.db.QueryRow(`SELECT startup_grace FROM app LIMIT 1`).Scan(&grace)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load app settings: %w", err)
	}
	if grace.Valid {
		config.App.StartupGrace = grace.String
	}

	if err := normalizeConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetLocation returns the configured location from the database
func (s *SQLiteProvider) GetLocation() (*LocationData, error) {
	query := `SELECT latitude, longitude, elevation FROM location LIMIT 1`

	loc := &LocationData{}
	err := s.db.QueryRow(query).Scan(&loc.Latitude, &loc.Longitude, &loc.Elevation)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no location configured")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query location: %w", err)
	}

	return loc, nil
}

// GetSensors returns sensor configurations from the database
func (s *SQLiteProvider) GetSensors() ([]SensorData, error) {
	query := `
		SELECT name, unique_id, weather_entity, mode, fallback, poll_interval
		FROM sensors
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensors: %w", err)
	}
	defer rows.Close()

	var sensors []SensorData
	for rows.Next() {
		var sensor SensorData
		var uniqueID, weatherEntity, mode, pollInterval sql.NullString
		var fallback sql.NullFloat64

		err := rows.Scan(&sensor.Name, &uniqueID, &weatherEntity, &mode, &fallback, &pollInterval)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sensor row: %w", err)
		}

		sensor.UniqueID = uniqueID.String
		sensor.WeatherEntity = weatherEntity.String
		sensor.Mode = mode.String
		sensor.Fallback = fallback.Float64
		sensor.PollInterval = pollInterval.String

		sensors = append(sensors, sensor)
	}

	return sensors, rows.Err()
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT type, rest_listen_addr, rest_port,
		       mqtt_broker, mqtt_topic_prefix, mqtt_client_id, mqtt_username, mqtt_password
		FROM controllers
		ORDER BY type
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var ctrl ControllerData
		var listenAddr sql.NullString
		var port sql.NullInt64
		var broker, topicPrefix, clientID, username, password sql.NullString

		err := rows.Scan(&ctrl.Type, &listenAddr, &port,
			&broker, &topicPrefix, &clientID, &username, &password)
		if err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}

		switch ctrl.Type {
		case "rest":
			ctrl.REST = &RESTServerData{
				ListenAddr: listenAddr.String,
				Port:       int(port.Int64),
			}
		case "mqtt":
			ctrl.MQTT = &MQTTData{
				Broker:      broker.String,
				TopicPrefix: topicPrefix.String,
				ClientID:    clientID.String,
				Username:    username.String,
				Password:    password.String,
			}
		}

		controllers = append(controllers, ctrl)
	}

	return controllers, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
