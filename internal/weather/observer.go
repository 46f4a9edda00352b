package weather

// Observer receives every measurement update broadcast by a Station.
//
// Update is called synchronously from the notification pass. It may register
// or remove observers on the same Station, but must not call SetMeasurements
// or NotifyObservers on it.
type Observer interface {
	Update(m Measurements)
}

// ObserverFunc adapts a plain function to the Observer interface.
// Function values are not comparable, so an ObserverFunc cannot be removed
// from a Station once registered.
type ObserverFunc func(m Measurements)

func (f ObserverFunc) Update(m Measurements) {
	if f != nil {
		f(m)
	}
}

var _ Observer = ObserverFunc(nil)
