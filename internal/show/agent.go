package show

import (
	"context"
	"log/slog"
	"strconv"

	"swarmshow/internal/command"
	"swarmshow/internal/flight"
	"swarmshow/internal/logging"
	"swarmshow/internal/showlog"
)

// Agent is one vehicle: an index, a radio URI, and a private FIFO
// queue consumed by a single worker goroutine. The scheduler is the
// queue's only writer.
type Agent struct {
	Index int
	URI   string
	queue chan command.Command
	cmdr  flight.Commander
}

// runAgent serially executes one agent's command stream. It returns
// only on Quit; transport failures are logged and never stop the
// stream or affect sibling agents.
func (s *Scheduler) runAgent(ctx context.Context, a *Agent) {
	defer s.wg.Done()
	log := logging.FromContext(ctx).With("agent", a.Index, "uri", a.URI)

	a.setup(log)

	for {
		cmd := <-a.queue
		step := s.Step()
		switch c := cmd.(type) {
		case command.Quit:
			s.emit(ctx, s.event(a, step, showlog.KindQuit, cmd.String(), ""))
			log.Info("worker stopped")
			return
		case command.Takeoff:
			if err := a.cmdr.Takeoff(c.Height, c.Duration); err != nil {
				log.Error("takeoff failed", "err", err)
			}
		case command.Land:
			if err := a.cmdr.Land(0.0, c.Duration); err != nil {
				log.Error("land failed", "err", err)
			}
		case command.GoTo:
			if err := a.cmdr.GoTo(c.X, c.Y, c.Z, 0, c.Duration); err != nil {
				log.Error("go_to failed", "err", err)
			}
		case command.Ring:
			a.setRingColor(c, log)
		case command.Helix:
			// Paced expansion: the worker blocks between waypoints, so a
			// helix occupies this agent for the sum of its pauses.
			for _, wp := range c.Waypoints() {
				if err := a.cmdr.GoTo(wp.X, wp.Y, wp.Z, wp.Yaw, wp.Duration); err != nil {
					log.Error("helix waypoint failed", "err", err)
				}
				s.sleep(ctx, seconds(wp.Pause))
				if ctx.Err() != nil {
					break
				}
			}
		default:
			// Unreachable while the command set stays closed.
			log.Warn("unknown command, skipping", "command", cmd.String())
			s.emit(ctx, s.event(a, step, showlog.KindWarn, cmd.String(), "unknown command"))
			continue
		}
		s.emit(ctx, s.event(a, step, showlog.KindExec, cmd.String(), ""))
	}
}

// setup selects the PID controller, enables the high-level commander,
// and resets the LED ring to the fade-color effect, off.
func (a *Agent) setup(log *slog.Logger) {
	params := [][2]string{
		{flight.ParamController, flight.ControllerPID},
		{flight.ParamHighLevel, "1"},
		{flight.ParamFadeTime, "0"},
		{flight.ParamFadeColor, "0"},
		{flight.ParamRingEffect, flight.RingEffectFadeColor},
	}
	for _, p := range params {
		if err := a.cmdr.SetParam(p[0], p[1]); err != nil {
			log.Error("param setup failed", "param", p[0], "err", err)
		}
	}
}

// setRingColor pushes the fade duration and the packed 24-bit color
// through the parameter side channel, not the motion command path.
func (a *Agent) setRingColor(c command.Ring, log *slog.Logger) {
	fade := strconv.FormatFloat(c.FadeDuration, 'f', -1, 64)
	if err := a.cmdr.SetParam(flight.ParamFadeTime, fade); err != nil {
		log.Error("ring fade time failed", "err", err)
	}
	packed := command.PackColor(c.R, c.G, c.B, c.Intensity)
	if err := a.cmdr.SetParam(flight.ParamFadeColor, strconv.FormatUint(uint64(packed), 10)); err != nil {
		log.Error("ring fade color failed", "err", err)
	}
}
