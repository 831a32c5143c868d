package domain

import "github.com/jonboulle/clockwork"

// clock stamps new records. Tests freeze it via SetClock to get stable timestamps.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by NewSensorRecord. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
