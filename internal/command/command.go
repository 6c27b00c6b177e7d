// Package command defines the closed set of choreography commands.
package command

import "fmt"

// Command is a single choreography action addressed to one agent.
// The set of variants is closed; all implementations live in this package.
type Command interface {
	fmt.Stringer
	isCommand()
}

// Takeoff lifts the agent to the given height over Duration seconds.
type Takeoff struct {
	Height   float64
	Duration float64
}

// Land brings the agent down to height zero over Duration seconds.
type Land struct {
	Duration float64
}

// GoTo moves the agent to an absolute position with yaw fixed at zero.
type GoTo struct {
	X, Y, Z  float64
	Duration float64
}

// Ring fades the agent's LED ring to an RGB color scaled by Intensity.
// Channels are 0-255, Intensity is 0.0-1.0.
type Ring struct {
	R, G, B      int
	Intensity    float64
	FadeDuration float64
}

// Helix traces a helical path: an entry waypoint followed by Steps
// chords of a full circle, climbing from ZStart to ZEnd.
type Helix struct {
	Diameter float64
	ZStart   float64
	ZEnd     float64
	Theta0   float64
	Period   float64
	Steps    int
	Duration float64
}

// Quit terminates an agent's worker. It is injected by the scheduler
// after the table is exhausted and never appears in an authored table.
type Quit struct{}

func (Takeoff) isCommand() {}
func (Land) isCommand()    {}
func (GoTo) isCommand()    {}
func (Ring) isCommand()    {}
func (Helix) isCommand()   {}
func (Quit) isCommand()    {}

func (c Takeoff) String() string {
	return fmt.Sprintf("takeoff(height=%.2f duration=%.1fs)", c.Height, c.Duration)
}

func (c Land) String() string {
	return fmt.Sprintf("land(duration=%.1fs)", c.Duration)
}

func (c GoTo) String() string {
	return fmt.Sprintf("goto(x=%.2f y=%.2f z=%.2f duration=%.1fs)", c.X, c.Y, c.Z, c.Duration)
}

func (c Ring) String() string {
	return fmt.Sprintf("ring(r=%d g=%d b=%d intensity=%.2f fade=%.1fs)", c.R, c.G, c.B, c.Intensity, c.FadeDuration)
}

func (c Helix) String() string {
	return fmt.Sprintf("helix(d=%.2f z=%.2f..%.2f theta0=%.2f period=%.1fs steps=%d duration=%.1fs)",
		c.Diameter, c.ZStart, c.ZEnd, c.Theta0, c.Period, c.Steps, c.Duration)
}

func (Quit) String() string { return "quit" }
