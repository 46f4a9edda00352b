package common

import "math"

// hpaPerInHg is the number of hectopascals in one inch of mercury.
const hpaPerInHg = 33.8638866667

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CelsiusToFahrenheit converts a temperature in °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// HpaToInHg converts a pressure in hPa (millibars) to inches of mercury.
func HpaToInHg(hpa float64) float64 {
	return hpa / hpaPerInHg
}
