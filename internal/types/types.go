// Package types defines the shared value types passed between sensors,
// the state store, and controllers.
package types

import "time"

// Units reported on computed readings.
const (
	UnitLux        = "lx"
	UnitIrradiance = "W/m²"
)

// AttributionAttr is the upstream state attribute naming the weather data
// provider; it selects the condition vocabulary during classification.
const AttributionAttr = "attribution"

// Sentinel upstream values that mean "no usable data".
const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
)

// UpstreamState is a snapshot of an external entity's state as supplied by
// the host: a raw value (numeric cloud coverage or a textual weather
// condition), optional attributes, and the source domain.
type UpstreamState struct {
	Value      string            `json:"state"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Domain     string            `json:"domain,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
}

// Attribution returns the provider attribution attribute, if present.
func (s *UpstreamState) Attribution() string {
	if s == nil {
		return ""
	}
	return s.Attributes[AttributionAttr]
}

// Usable reports whether the state carries a real value rather than one of
// the missing-data sentinels.
func (s *UpstreamState) Usable() bool {
	return s != nil && s.Value != "" && s.Value != StateUnavailable && s.Value != StateUnknown
}

// Reading is one computed sensor output, produced fresh every update cycle.
type Reading struct {
	SensorName  string    `json:"sensor"`
	Value       float64   `json:"value"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
