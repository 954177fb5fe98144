package astro

import (
	"math"
	"testing"
)

func TestClearSkyLuxAnchors(t *testing.T) {
	tests := []struct {
		name         string
		elevationDeg float64
		min, max     float64
	}{
		{"sun overhead", 90, 120000, 130000},
		{"midday sun", 45, 50000, 90000},
		{"sun at horizon", 0, 400, 1200},
		{"civil twilight", -6, -100, 100},
		{"sun at nadir", -90, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lux := ClearSkyLux(tt.elevationDeg)
			if lux < tt.min || lux > tt.max {
				t.Errorf("ClearSkyLux(%.0f) = %.1f, expected in [%.0f, %.0f]",
					tt.elevationDeg, lux, tt.min, tt.max)
			}
		})
	}
}

func TestClearSkyLuxMonotonic(t *testing.T) {
	prev := ClearSkyLux(-90)
	for elev := -89.5; elev <= 90; elev += 0.5 {
		lux := ClearSkyLux(elev)
		if lux < prev-1e-9 {
			t.Fatalf("ClearSkyLux decreased at %.1f°: %.6f < %.6f", elev, lux, prev)
		}
		prev = lux
	}
}

func TestClearSkyLuxContinuous(t *testing.T) {
	// Neighboring samples a hundredth of a degree apart should never jump
	// by more than a small fraction of the full-scale output.
	const step = 0.01
	prev := ClearSkyLux(-90)
	for elev := -90 + step; elev <= 90; elev += step {
		lux := ClearSkyLux(elev)
		if math.Abs(lux-prev) > 100 {
			t.Fatalf("discontinuity at %.2f°: |%.3f - %.3f| > 100", elev, lux, prev)
		}
		prev = lux
	}
}

func TestLuxToIrradiance(t *testing.T) {
	// 120k lux of full sun should land near the solar-noon irradiance range.
	wm2 := ClearSkyLux(90) * LuxToIrradiance
	if wm2 < 800 || wm2 > 1100 {
		t.Errorf("overhead irradiance = %.1f W/m², expected in [800, 1100]", wm2)
	}
}
