// Package flight is the narrow surface consumed from the radio transport.
// Connection management, estimator reset, and the parameter protocol are
// owned by the transport behind this interface.
package flight

// Commander executes low-level flight primitives for one vehicle.
type Commander interface {
	// Takeoff lifts the vehicle to the given height over duration seconds.
	Takeoff(height, duration float64) error
	// Land descends to the given height over duration seconds.
	Land(height, duration float64) error
	// GoTo flies to an absolute position with the given yaw.
	GoTo(x, y, z, yaw, duration float64) error
	// SetParam writes a firmware parameter through the side channel.
	SetParam(name, value string) error
}

// Firmware parameter names used by the choreography runner.
const (
	ParamHighLevel  = "commander.enHighLevel"
	ParamController = "stabilizer.controller"
	ParamRingEffect = "ring.effect"
	ParamFadeTime   = "ring.fadeTime"
	ParamFadeColor  = "ring.fadeColor"
)

// Parameter values.
const (
	ControllerPID       = "1"
	ControllerMellinger = "2"
	RingEffectFadeColor = "14"
)
