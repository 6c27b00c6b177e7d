package command

import "math"

// Waypoint is a single absolute position/yaw target. Duration is the
// nominal flight time handed to the transport, Pause the real-time wait
// before the next waypoint may be issued.
type Waypoint struct {
	X, Y, Z  float64
	Yaw      float64
	Duration float64
	Pause    float64
}

// Waypoints expands the helix into Steps+1 waypoints. The first is the
// entry point at Theta0, flown over the command's full Duration with an
// extra second of arrival buffer. The remaining Steps waypoints trace
// one full revolution in chords of Period/Steps seconds each, climbing
// linearly from ZStart to ZEnd.
func (c Helix) Waypoints() []Waypoint {
	radius := c.Diameter / 2.0
	wps := make([]Waypoint, 0, c.Steps+1)
	wps = append(wps, Waypoint{
		X:        radius * math.Cos(c.Theta0),
		Y:        radius * math.Sin(c.Theta0),
		Z:        c.ZStart,
		Yaw:      c.Theta0 - math.Pi/2.0,
		Duration: c.Duration,
		Pause:    c.Duration + 1,
	})

	subPeriod := c.Period / float64(c.Steps)
	for counter := 1; counter <= c.Steps; counter++ {
		frac := float64(counter) / float64(c.Steps)
		theta := c.Theta0 + 2*math.Pi*frac
		z := c.ZStart + frac*(c.ZEnd-c.ZStart)
		if counter == c.Steps {
			// frac is exactly 1 here but the float sum can still miss ZEnd.
			z = c.ZEnd
		}
		wps = append(wps, Waypoint{
			X:        radius * math.Cos(theta),
			Y:        radius * math.Sin(theta),
			Z:        z,
			Yaw:      theta - math.Pi/2.0,
			Duration: subPeriod,
			Pause:    subPeriod,
		})
	}
	return wps
}
