package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skylight.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
app:
  startup_grace: 30s
location:
  latitude: 47.6062
  longitude: -122.3321
  elevation: 56
sensors:
  - name: outdoor_illuminance
    unique_id: abc-123
    weather_entity: weather.home
    mode: normal
    fallback: 4
    poll_interval: 10m
  - name: outdoor_irradiance
    mode: irradiance
controllers:
  - type: rest
    rest:
      port: 8080
  - type: mqtt
    mqtt:
      broker: tcp://localhost:1883
      topic_prefix: skylight
`)

	p := NewYAMLProvider(path)
	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Location.Latitude != 47.6062 || cfg.Location.Longitude != -122.3321 {
		t.Errorf("location = %+v", cfg.Location)
	}
	if got := cfg.App.StartupGraceDuration(); got != 30*time.Second {
		t.Errorf("startup grace = %v, expected 30s", got)
	}

	if len(cfg.Sensors) != 2 {
		t.Fatalf("got %d sensors, expected 2", len(cfg.Sensors))
	}
	first := cfg.Sensors[0]
	if first.UniqueID != "abc-123" {
		t.Errorf("unique_id = %q, expected \"abc-123\"", first.UniqueID)
	}
	if first.Fallback != 4 {
		t.Errorf("fallback = %v, expected 4", first.Fallback)
	}
	if got := first.PollIntervalDuration(); got != 10*time.Minute {
		t.Errorf("poll interval = %v, expected 10m", got)
	}

	if len(cfg.Controllers) != 2 {
		t.Fatalf("got %d controllers, expected 2", len(cfg.Controllers))
	}
	if cfg.Controllers[0].REST == nil || cfg.Controllers[0].REST.Port != 8080 {
		t.Errorf("rest controller = %+v", cfg.Controllers[0].REST)
	}
	if cfg.Controllers[1].MQTT == nil || cfg.Controllers[1].MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("mqtt controller = %+v", cfg.Controllers[1].MQTT)
	}

	if !p.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestYAMLProviderDefaults(t *testing.T) {
	path := writeConfigFile(t, `
location:
  latitude: 10
  longitude: 20
sensors:
  - name: estimate
`)

	p := NewYAMLProvider(path)
	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	s := cfg.Sensors[0]
	if s.Mode != ModeNormal {
		t.Errorf("mode = %q, expected %q", s.Mode, ModeNormal)
	}
	if s.Fallback != DefaultFallback {
		t.Errorf("fallback = %v, expected %v", s.Fallback, DefaultFallback)
	}
	if s.UniqueID == "" {
		t.Error("unique_id not generated")
	}
	if got := s.PollIntervalDuration(); got != DefaultPollInterval {
		t.Errorf("poll interval = %v, expected %v", got, DefaultPollInterval)
	}
	if got := cfg.App.StartupGraceDuration(); got != DefaultStartupGrace {
		t.Errorf("startup grace = %v, expected %v", got, DefaultStartupGrace)
	}
}

func TestYAMLProviderValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "latitude out of range",
			yaml: `
location:
  latitude: 95
  longitude: 0
sensors:
  - name: s1
`,
			wantErr: "latitude",
		},
		{
			name: "unsupported mode",
			yaml: `
location:
  latitude: 0
  longitude: 0
sensors:
  - name: s1
    mode: fancy
`,
			wantErr: "unsupported mode",
		},
		{
			name: "fallback out of range",
			yaml: `
location:
  latitude: 0
  longitude: 0
sensors:
  - name: s1
    fallback: 20
`,
			wantErr: "fallback",
		},
		{
			name: "poll interval below minimum",
			yaml: `
location:
  latitude: 0
  longitude: 0
sensors:
  - name: s1
    poll_interval: 30s
`,
			wantErr: "below minimum",
		},
		{
			name: "duplicate sensor names",
			yaml: `
location:
  latitude: 0
  longitude: 0
sensors:
  - name: s1
  - name: s1
`,
			wantErr: "duplicate sensor name",
		},
		{
			name: "sensor missing name",
			yaml: `
location:
  latitude: 0
  longitude: 0
sensors:
  - mode: simple
`,
			wantErr: "missing name",
		},
		{
			name: "unknown controller type",
			yaml: `
location:
  latitude: 0
  longitude: 0
sensors:
  - name: s1
controllers:
  - type: carrier-pigeon
`,
			wantErr: "unsupported controller type",
		},
		{
			name: "mqtt controller without broker",
			yaml: `
location:
  latitude: 0
  longitude: 0
sensors:
  - name: s1
controllers:
  - type: mqtt
    mqtt:
      topic_prefix: skylight
`,
			wantErr: "missing broker",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewYAMLProvider(writeConfigFile(t, tc.yaml))
			_, err := p.LoadConfig()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	p := NewYAMLProvider(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := p.LoadConfig(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
