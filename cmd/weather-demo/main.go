// Command weather-demo replays a fixed sequence of updates against a station
// with the three example displays attached.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-station/internal/display"
	"github.com/i474232898/weather-station/internal/weather"
)

func main() {
	log.SetLevel(log.WarnLevel)

	station := weather.NewStation()

	current := display.NewCurrentConditions(station, os.Stdout)
	statistics := display.NewStatistics(station, os.Stdout)
	display.NewForecast(station, os.Stdout)

	station.SetMeasurements(80, 65, 30.4)
	station.SetMeasurements(82, 70, 29.2)
	station.SetMeasurements(78, 90, 29.2)

	// Only the forecast display stays registered.
	for _, d := range []display.Display{current, statistics} {
		if err := station.RemoveObserver(d); err != nil {
			log.WithError(err).WithField("display", d.Name()).Fatal("failed to remove display")
		}
	}
	station.SetMeasurements(120, 100, 1000)
}
