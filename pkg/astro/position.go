package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// solarCoords holds the intermediate solar position quantities shared by
// the elevation and sunrise/sunset calculations.
type solarCoords struct {
	declinationRad float64
	eqTimeMin      float64
}

// coordsForJD computes solar declination and the equation of time for a
// Julian Day using the NOAA low-precision series.
func coordsForJD(jd float64) solarCoords {
	T := (jd - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	sunLong := L0 + C
	omega := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	declRad := math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	return solarCoords{declinationRad: declRad, eqTimeMin: eqTimeMin}
}

// SolarElevation returns the sun's elevation angle in degrees above the
// horizon at the given instant and position, with a fixed atmospheric
// refraction correction. Negative values mean the sun is below the horizon.
func SolarElevation(t time.Time, latitude, longitude float64) float64 {
	ut := t.UTC()
	jd := julian.TimeToJD(ut)
	sc := coordsForJD(jd)

	utcMin := float64(ut.Hour()*60+ut.Minute()) + float64(ut.Second())/60.0
	timeOffset := 4*longitude + sc.eqTimeMin
	tst := utcMin + timeOffset
	ha := tst/4 - 180
	haRad := degToRad(ha)

	latRad := degToRad(latitude)
	cosZen := math.Sin(latRad)*math.Sin(sc.declinationRad) +
		math.Cos(latRad)*math.Cos(sc.declinationRad)*math.Cos(haRad)
	zenDeg := radToDeg(math.Acos(cosZen))

	// 0.5667° is the conventional refraction at the horizon.
	return 90 - zenDeg + 0.5667
}
