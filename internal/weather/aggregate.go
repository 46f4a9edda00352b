package weather

// AggregateReadings averages the readings of several sources field by field.
// It returns false when there is nothing to aggregate.
func AggregateReadings(readings []Measurements) (Measurements, bool) {
	if len(readings) == 0 {
		return Measurements{}, false
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumPressure float64
	)

	for _, r := range readings {
		sumTemp += r.Temperature
		sumHumidity += r.Humidity
		sumPressure += r.Pressure
	}

	n := float64(len(readings))

	return Measurements{
		Temperature: sumTemp / n,
		Humidity:    sumHumidity / n,
		Pressure:    sumPressure / n,
	}, true
}
