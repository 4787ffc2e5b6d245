package components

import "github.com/yohamta/donburi"

// ClockData is fixed-step simulation time (singleton component)
type ClockData struct {
	TicksPerSecond int
	Tick           int
	Elapsed        float64 // seconds
}

// DT returns the length of one tick in seconds.
func (c *ClockData) DT() float64 {
	if c.TicksPerSecond <= 0 {
		return 0
	}
	return 1 / float64(c.TicksPerSecond)
}

var Clock = donburi.NewComponentType[ClockData]()
