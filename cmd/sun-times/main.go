// Command sun-times prints sunrise, sunset, the illuminance ramp windows,
// and the current solar elevation for a position and date. Useful for
// checking what the daemon will compute for a given site.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kwiles/skylight/pkg/astro"
)

func main() {
	lat := flag.Float64("lat", 0, "Observer latitude in degrees (positive north)")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees (positive east)")
	elev := flag.Float64("elev", 0, "Observer elevation in meters above sea level")
	dateStr := flag.String("date", "", "UTC date to calculate for (YYYY-MM-DD, default today)")
	flag.Parse()

	var t time.Time
	if *dateStr == "" {
		t = time.Now().UTC()
	} else {
		var err error
		t, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			os.Exit(1)
		}
	}

	year, month, day := t.Date()
	sunrise, sunset, kind := astro.SunTimes(year, month, day, *lat, *lon, *elev)

	fmt.Printf("Sun times for %04d-%02d-%02d at %.4f, %.4f (%.0fm)\n", year, month, day, *lat, *lon, *elev)

	switch kind {
	case astro.PolarDay:
		fmt.Println("  Polar day: the sun never sets; illuminance factor is 1 all day")
	case astro.PolarNight:
		fmt.Println("  Polar night: the sun never rises; illuminance factor is 0 all day")
	default:
		fmt.Printf("  Sunrise:      %s\n", sunrise.Format(time.RFC3339))
		fmt.Printf("  Sunset:       %s\n", sunset.Format(time.RFC3339))
		fmt.Printf("  Morning ramp: %s -> %s\n",
			sunrise.Add(-astro.SunriseLead).Format("15:04:05"),
			sunrise.Add(astro.SunriseTail).Format("15:04:05"))
		fmt.Printf("  Evening ramp: %s -> %s\n",
			sunset.Add(-astro.SunsetLead).Format("15:04:05"),
			sunset.Add(astro.SunsetTail).Format("15:04:05"))
	}

	elevation := astro.SolarElevation(t, *lat, *lon)
	lux := astro.ClearSkyLux(elevation)
	fmt.Printf("  Solar elevation at %s: %.2f°\n", t.Format("15:04:05"), elevation)
	fmt.Printf("  Clear-sky illuminance: %.0f lx (%.1f W/m²)\n", lux, lux*astro.LuxToIrradiance)
}
