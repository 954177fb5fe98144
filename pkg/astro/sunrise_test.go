package astro

import (
	"testing"
	"time"
)

func TestSunTimes(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		month      time.Month
		day        int
		lat, lon   float64
		kind       DayKind
		sunriseUTC string // approximate HH:MM, ±45 min tolerance
		sunsetUTC  string
	}{
		{
			name: "Equator at equinox",
			year: 2024, month: time.March, day: 20,
			lat: 0.0, lon: 0.0,
			kind:       NormalDay,
			sunriseUTC: "06:00", sunsetUTC: "18:00",
		},
		{
			name: "London summer solstice",
			year: 2024, month: time.June, day: 21,
			lat: 51.5, lon: -0.1,
			kind:       NormalDay,
			sunriseUTC: "04:20", sunsetUTC: "21:00",
		},
		{
			name: "Seattle winter solstice",
			year: 2024, month: time.December, day: 21,
			lat: 47.6, lon: -122.3,
			kind:       NormalDay,
			sunriseUTC: "16:00", sunsetUTC: "24:20",
		},
		{
			name: "Arctic summer (polar day)",
			year: 2024, month: time.June, day: 21,
			lat: 70.0, lon: 25.0,
			kind: PolarDay,
		},
		{
			name: "Arctic winter (polar night)",
			year: 2024, month: time.December, day: 21,
			lat: 70.0, lon: 25.0,
			kind: PolarNight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sunrise, sunset, kind := SunTimes(tt.year, tt.month, tt.day, tt.lat, tt.lon, 0)
			if kind != tt.kind {
				t.Fatalf("kind = %v, expected %v", kind, tt.kind)
			}
			if kind != NormalDay {
				return
			}

			if !sunset.After(sunrise) {
				t.Errorf("sunset %v not after sunrise %v", sunset, sunrise)
			}

			midnight := time.Date(tt.year, tt.month, tt.day, 0, 0, 0, 0, time.UTC)
			check := func(label, hhmm string, got time.Time) {
				want, err := time.Parse("15:04", hhmm)
				wantMin := want.Hour()*60 + want.Minute()
				if err != nil {
					// "24:20" style offsets land on the next UTC day
					wantMin = 24*60 + 20
				}
				gotMin := int(got.Sub(midnight).Minutes())
				if diff := gotMin - wantMin; diff < -45 || diff > 45 {
					t.Errorf("%s = %v (%d min), expected ~%s (±45 min)", label, got, gotMin, hhmm)
				}
			}
			check("sunrise", tt.sunriseUTC, sunrise)
			check("sunset", tt.sunsetUTC, sunset)
		})
	}
}

func TestSunTimesYearRound(t *testing.T) {
	// Day length at 45°N should stay between 4 and 20 hours all year and
	// sunset must always follow sunrise.
	for doy := 0; doy < 365; doy++ {
		d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, doy)
		sunrise, sunset, kind := SunTimes(d.Year(), d.Month(), d.Day(), 45.0, 0.0, 0)
		if kind != NormalDay {
			t.Fatalf("day %d: unexpected polar conditions at 45°N", doy)
		}
		length := sunset.Sub(sunrise)
		if length < 4*time.Hour || length > 20*time.Hour {
			t.Errorf("day %d: unreasonable day length %v", doy, length)
		}
	}
}

func TestSunTimesElevationDip(t *testing.T) {
	// A high-altitude observer sees the sun slightly earlier and later.
	loRise, loSet, _ := SunTimes(2024, time.June, 1, 40.0, -105.0, 0)
	hiRise, hiSet, _ := SunTimes(2024, time.June, 1, 40.0, -105.0, 3000)
	if !hiRise.Before(loRise) {
		t.Errorf("elevated sunrise %v not before sea-level sunrise %v", hiRise, loRise)
	}
	if !hiSet.After(loSet) {
		t.Errorf("elevated sunset %v not after sea-level sunset %v", hiSet, loSet)
	}
}
