package sensor

import (
	"time"

	"github.com/kwiles/skylight/pkg/astro"
	"github.com/kwiles/skylight/pkg/config"
)

// sunCache holds one day's ramp boundary instants. It is valid only for
// the calendar date it was computed for and is owned by a single sensor.
type sunCache struct {
	year  int
	month time.Month
	day   int
	kind  astro.DayKind

	sunriseBegin time.Time
	sunriseEnd   time.Time
	sunsetBegin  time.Time
	sunsetEnd    time.Time
}

func computeSunCache(now time.Time, loc config.LocationData) *sunCache {
	year, month, day := now.Date()
	sunrise, sunset, kind := astro.SunTimes(year, month, day, loc.Latitude, loc.Longitude, loc.Elevation)

	c := &sunCache{year: year, month: month, day: day, kind: kind}
	if kind == astro.NormalDay {
		c.sunriseBegin = sunrise.Add(-astro.SunriseLead)
		c.sunriseEnd = sunrise.Add(astro.SunriseTail)
		c.sunsetBegin = sunset.Add(-astro.SunsetLead)
		c.sunsetEnd = sunset.Add(astro.SunsetTail)
	}
	return c
}

func (c *sunCache) validFor(now time.Time) bool {
	year, month, day := now.Date()
	return c != nil && c.year == year && c.month == month && c.day == day
}

// factor returns the 0..1 daylight fraction at the given instant: 1
// strictly between the ramps, 0 strictly outside them, and a linear
// one-hour ramp in between. Polar days are all daylight, polar nights
// all dark.
func (c *sunCache) factor(now time.Time) float64 {
	switch c.kind {
	case astro.PolarDay:
		return 1
	case astro.PolarNight:
		return 0
	}

	switch {
	case now.After(c.sunriseEnd) && now.Before(c.sunsetBegin):
		// Daytime
		return 1
	case now.Before(c.sunriseBegin) || now.After(c.sunsetEnd):
		// Nighttime
		return 0
	case !now.After(c.sunriseEnd):
		// Sunrise ramp
		return now.Sub(c.sunriseBegin).Hours()
	default:
		// Sunset ramp
		return c.sunsetEnd.Sub(now).Hours()
	}
}
