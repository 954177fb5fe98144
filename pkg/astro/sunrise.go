package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Twilight ramp windows around the true sunrise and sunset. Each ramp
// spans one hour: illuminance climbs from 20 minutes before sunrise to
// 40 minutes after, and fades from 40 minutes before sunset to 20
// minutes after.
const (
	SunriseLead = 20 * time.Minute
	SunriseTail = 40 * time.Minute
	SunsetLead  = 40 * time.Minute
	SunsetTail  = 20 * time.Minute
)

// DayKind classifies a calendar day at a location by whether the sun
// crosses the horizon at all.
type DayKind int

const (
	// NormalDay means the sun rises and sets.
	NormalDay DayKind = iota
	// PolarDay means the sun never sets (midnight sun).
	PolarDay
	// PolarNight means the sun never rises.
	PolarNight
)

// SunTimes returns the sunrise and sunset instants (UTC) for the given
// calendar date at the given position. elevationM is the observer's height
// above sea level in meters and lowers the apparent horizon slightly.
// For polar day or polar night the returned times are zero and the kind
// reports which case applies. Sunset is always chronologically after
// sunrise; near the date line it may fall on the next UTC day.
func SunTimes(year int, month time.Month, day int, latitude, longitude, elevationM float64) (sunrise, sunset time.Time, kind DayKind) {
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	noon := midnight.Add(12 * time.Hour)
	sc := coordsForJD(julian.TimeToJD(noon))

	// Horizon altitude: standard refraction plus dip from observer height.
	h0 := -0.833
	if elevationM > 0 {
		h0 -= 2.076 * math.Sqrt(elevationM) / 60.0
	}

	latRad := degToRad(latitude)
	cosH := (math.Sin(degToRad(h0)) - math.Sin(latRad)*math.Sin(sc.declinationRad)) /
		(math.Cos(latRad) * math.Cos(sc.declinationRad))

	if cosH < -1.0 {
		return time.Time{}, time.Time{}, PolarDay
	}
	if cosH > 1.0 {
		return time.Time{}, time.Time{}, PolarNight
	}

	// Hour angle at the horizon crossing, in minutes of time (4 min/deg).
	haMin := radToDeg(math.Acos(cosH)) * 4.0

	// Solar noon in UTC minutes from midnight. Each degree of longitude is
	// 4 minutes; east of Greenwich means earlier UTC. Left unnormalized so
	// the pair stays chronologically ordered.
	solarNoonMin := 720.0 - 4.0*longitude - sc.eqTimeMin

	sunrise = midnight.Add(time.Duration((solarNoonMin - haMin) * float64(time.Minute)))
	sunset = midnight.Add(time.Duration((solarNoonMin + haMin) * float64(time.Minute)))
	return sunrise, sunset, NormalDay
}
