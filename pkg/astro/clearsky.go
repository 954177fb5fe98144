// Package astro provides the solar math used by the illuminance sensors:
// a clear-sky illuminance model, solar position, and sunrise/sunset times.
// Everything here is pure computation with no internal dependencies.
package astro

import "math"

// LuxToIrradiance converts photopic illuminance (lux) to shortwave
// irradiance (W/m²) using a fixed daylight luminous efficacy.
const LuxToIrradiance = 0.0079

// ClearSkyLux estimates outdoor illuminance in lux from the sun at the
// given elevation angle (degrees above the horizon, -90 to +90), assuming
// a cloudless sky. The result can be negative or very small below the
// horizon; callers attenuate rather than clamp.
func ClearSkyLux(elevationDeg float64) float64 {
	elevRad := degToRad(elevationDeg)
	u := math.Sin(elevRad)
	x := 753.66156
	s := math.Asin(x * math.Cos(elevRad) / (x + 1))
	m := x*(math.Cos(s)-u) + math.Cos(s)
	m = math.Exp(-0.2*m)*u + 0.0289*math.Exp(-0.042*m)*(1+(elevationDeg+90)*u/57.29577951)
	return 133775 * m
}
