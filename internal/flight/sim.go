package flight

import "log/slog"

// SimCommander is a Commander that only logs the primitives it receives.
// It stands in for the radio transport during dry runs and rehearsals.
type SimCommander struct {
	uri string
	log *slog.Logger
}

// NewSimCommander returns a simulated commander for the vehicle at uri.
func NewSimCommander(uri string, log *slog.Logger) *SimCommander {
	return &SimCommander{uri: uri, log: log.With("uri", uri)}
}

func (c *SimCommander) Takeoff(height, duration float64) error {
	c.log.Info("takeoff", "height", height, "duration", duration)
	return nil
}

func (c *SimCommander) Land(height, duration float64) error {
	c.log.Info("land", "height", height, "duration", duration)
	return nil
}

func (c *SimCommander) GoTo(x, y, z, yaw, duration float64) error {
	c.log.Info("go_to", "x", x, "y", y, "z", z, "yaw", yaw, "duration", duration)
	return nil
}

func (c *SimCommander) SetParam(name, value string) error {
	c.log.Info("set_param", "name", name, "value", value)
	return nil
}
