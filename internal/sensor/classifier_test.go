package sensor

import (
	"math"
	"testing"

	"github.com/kwiles/skylight/internal/types"
	"go.uber.org/zap"
)

type hostFlag struct{ running bool }

func (h *hostFlag) started() bool { return h.running }

func newTestClassifier(running bool) (*classifier, *hostFlag) {
	host := &hostFlag{running: running}
	return newClassifier("weather.test", 10, host.started, zap.NewNop().Sugar()), host
}

func upstream(value string, attrs map[string]string) *types.UpstreamState {
	return &types.UpstreamState{Value: value, Attributes: attrs, Domain: "weather"}
}

func TestClassifierCloudCoverage(t *testing.T) {
	c, _ := newTestClassifier(true)

	tests := []struct {
		value string
		sk    float64
		desc  string
	}{
		{"0", 1, "(0%)"},
		{"100", 10, "(100%)"},
		{"35", math.Pow(10, 0.35), "(35%)"},
		{"50", math.Pow(10, 0.5), "(50%)"},
	}

	for _, tt := range tests {
		sk, desc := c.resolve(upstream(tt.value, nil))
		if math.Abs(sk-tt.sk) > 1e-9 {
			t.Errorf("divisor for %s%% = %v, expected %v", tt.value, sk, tt.sk)
		}
		if desc != tt.desc {
			t.Errorf("description for %s%% = %q, expected %q", tt.value, desc, tt.desc)
		}
	}

	if c.status != StatusOKCloud {
		t.Errorf("status = %v, expected %v", c.status, StatusOKCloud)
	}

	// Divisor grows monotonically with coverage.
	prev := 0.0
	for _, v := range []string{"0", "10", "25", "50", "75", "90", "100"} {
		sk, _ := c.resolve(upstream(v, nil))
		if sk <= prev {
			t.Errorf("divisor not increasing at %s%%: %v <= %v", v, sk, prev)
		}
		prev = sk
	}
}

func TestClassifierCloudOutOfRange(t *testing.T) {
	c, _ := newTestClassifier(true)
	c.resolve(upstream("50", nil))

	// "nan" parses as a float but compares false against any bound, so it
	// needs its own rejection; a NaN divisor would poison the reading.
	for _, v := range []string{"150", "-0.5", "nan", "NaN"} {
		sk, desc := c.resolve(upstream(v, nil))
		if sk != 10 || desc != descNoWeatherData {
			t.Errorf("coverage %q: got (%v, %q), expected fallback", v, sk, desc)
		}
		if c.status != StatusOKCloud {
			t.Errorf("coverage %q must not change status, got %v", v, c.status)
		}
	}

	// Self-corrects next cycle.
	if sk, _ := c.resolve(upstream("50", nil)); math.Abs(sk-math.Pow(10, 0.5)) > 1e-9 {
		t.Errorf("divisor after recovery = %v", sk)
	}
}

func TestClassifierFirstValueOutOfRange(t *testing.T) {
	// A numeric first value classifies the entity as cloud coverage even
	// when it is out of range; the cycle itself falls back.
	for _, v := range []string{"-20", "nan"} {
		c, _ := newTestClassifier(true)
		sk, _ := c.resolve(upstream(v, nil))
		if sk != 10 {
			t.Errorf("first value %q: divisor = %v, expected fallback 10", v, sk)
		}
		if c.status != StatusOKCloud {
			t.Errorf("first value %q: status = %v, expected %v", v, c.status, StatusOKCloud)
		}
	}
}

func TestClassifierMissingData(t *testing.T) {
	c, _ := newTestClassifier(true)
	c.resolve(upstream("75", nil))

	for _, value := range []string{"", types.StateUnavailable, types.StateUnknown} {
		var st *types.UpstreamState
		if value != "" {
			st = upstream(value, nil)
		}
		sk, desc := c.resolve(st)
		if sk != 10 || desc != descNoWeatherData {
			t.Errorf("missing data (%q): got (%v, %q), expected fallback", value, sk, desc)
		}
	}
	if !c.warned {
		t.Error("warned flag not set during outage")
	}

	// Data returning resets the warned flag for the next outage.
	c.resolve(upstream("75", nil))
	if c.warned {
		t.Error("warned flag not reset after data returned")
	}
}

func TestClassifierConditionWithAttribution(t *testing.T) {
	c, _ := newTestClassifier(true)
	attrs := map[string]string{types.AttributionAttr: "Data provided by AccuWeather"}

	// Generic labels win over provider additions (appended after).
	sk, desc := c.resolve(upstream("cloudy", attrs))
	if sk != 5 || desc != "(cloudy)" {
		t.Errorf("cloudy via AccuWeather: got (%v, %q), expected (5, \"(cloudy)\")", sk, desc)
	}
	if c.status != StatusOKCondition {
		t.Errorf("status = %v, expected %v", c.status, StatusOKCondition)
	}

	// Provider-specific label resolves through the appended mapping.
	if sk, _ := c.resolve(upstream("mostlycloudy", attrs)); sk != 3 {
		t.Errorf("mostlycloudy via AccuWeather = %v, expected 3", sk)
	}

	// Unknown condition falls back for the cycle without losing status.
	sk, desc = c.resolve(upstream("volcanic-ash", attrs))
	if sk != 10 || desc != descNoWeatherData {
		t.Errorf("unknown condition: got (%v, %q), expected fallback", sk, desc)
	}
	if c.status != StatusOKCondition {
		t.Errorf("unknown condition must not change status, got %v", c.status)
	}

	// Self-corrects when the condition changes to a known one.
	if sk, _ := c.resolve(upstream("sunny", attrs)); sk != 1 {
		t.Errorf("divisor after recovery = %v, expected 1", sk)
	}
}

func TestClassifierIdempotent(t *testing.T) {
	c, _ := newTestClassifier(true)
	attrs := map[string]string{types.AttributionAttr: "ecobee"}

	first, _ := c.resolve(upstream("hazy", attrs))
	for i := 0; i < 5; i++ {
		if sk, _ := c.resolve(upstream("hazy", attrs)); sk != first {
			t.Fatalf("resolution not idempotent: %v != %v", sk, first)
		}
	}
}

func TestClassifierNoAttribution(t *testing.T) {
	c, host := newTestClassifier(false)

	// While the process is starting, a text value without attribution is
	// deferred rather than condemned.
	sk, _ := c.resolve(upstream("cloudy", nil))
	if sk != 10 {
		t.Errorf("divisor = %v, expected fallback 10", sk)
	}
	if c.unsupported {
		t.Fatal("entity marked unsupported during startup")
	}
	if !c.pending() {
		t.Fatal("classifier should still be pending")
	}

	// After startup the same input is a hard error and sticks.
	host.running = true
	c.resolve(upstream("cloudy", nil))
	if !c.unsupported {
		t.Fatal("entity not marked unsupported after startup")
	}

	// Even a now-valid attribution cannot rescue it.
	attrs := map[string]string{types.AttributionAttr: "ecobee"}
	sk, desc := c.resolve(upstream("cloudy", attrs))
	if sk != 10 || desc != descNoWeatherData {
		t.Errorf("unsupported entity resolved (%v, %q), expected permanent fallback", sk, desc)
	}
}

func TestClassifierMissingEntityRetainsStatus(t *testing.T) {
	// An entity that has never produced data keeps its status so it can
	// classify when it finally appears, even after startup.
	c, _ := newTestClassifier(true)

	sk, _ := c.resolve(nil)
	if sk != 10 {
		t.Errorf("divisor = %v, expected fallback 10", sk)
	}
	if c.status != StatusNotSeen || c.unsupported {
		t.Fatalf("missing entity changed status: %v (unsupported=%v)", c.status, c.unsupported)
	}

	if sk, _ := c.resolve(upstream("40", nil)); math.Abs(sk-math.Pow(10, 0.4)) > 1e-9 {
		t.Errorf("late-appearing entity did not classify: divisor = %v", sk)
	}
}
