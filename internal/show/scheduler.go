// Scheduler driving the shared step clock and per-agent dispatch
package show

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"swarmshow/internal/command"
	"swarmshow/internal/config"
	"swarmshow/internal/flight"
	"swarmshow/internal/logging"
	"swarmshow/internal/showlog"
)

// Scheduler advances the step clock and hands due commands to agents.
// It owns the only termination path: once the table is exhausted it
// broadcasts Quit to every agent and waits for all workers to finish.
type Scheduler struct {
	show    *config.Show
	agents  []*Agent
	writer  showlog.EventWriter
	showID  string
	step    atomic.Int64
	wg      sync.WaitGroup
	writeMu sync.Mutex

	// injectable for tests
	sleep func(context.Context, time.Duration)
	now   func() time.Time
}

// New builds a scheduler and one agent per configured identity.
// commanders must hold one Commander per agent, index-aligned.
func New(cfg *config.Show, commanders []flight.Commander, writer showlog.EventWriter) (*Scheduler, error) {
	if len(commanders) != len(cfg.Agents) {
		return nil, fmt.Errorf("have %d commanders for %d agents", len(commanders), len(cfg.Agents))
	}
	s := &Scheduler{
		show:   cfg,
		writer: writer,
		showID: uuid.New().String(),
		sleep:  sleepCtx,
		now:    time.Now,
	}
	for i, ac := range cfg.Agents {
		s.agents = append(s.agents, &Agent{
			Index: i,
			URI:   ac.URI,
			// Sized for the whole table plus Quit so dispatch never blocks,
			// however far a slow worker drifts behind the clock.
			queue: make(chan command.Command, len(cfg.Sequence)+1),
			cmdr:  commanders[i],
		})
	}
	return s, nil
}

// ShowID returns the identifier stamped on every event of this run.
func (s *Scheduler) ShowID() string { return s.showID }

// Step returns the current value of the shared step clock.
func (s *Scheduler) Step() int { return int(s.step.Load()) }

// Run starts the workers and the clock loop, dispatches the whole
// table, then broadcasts Quit and joins all workers. It returns early
// only when ctx is cancelled; the table itself cannot be aborted at
// command granularity.
func (s *Scheduler) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting show",
		"show_id", s.showID,
		"name", s.show.Name,
		"agents", len(s.agents),
		"entries", len(s.show.Sequence),
		"step_time", s.show.StepTime)

	for _, a := range s.agents {
		s.wg.Add(1)
		go s.runAgent(ctx, a)
	}

	cursor := 0
	for {
		step := s.Step()
		log.Info("step", "step", step)

		var batch []showlog.EventRow
		for cursor < len(s.show.Sequence) && s.show.Sequence[cursor].Step <= step {
			e := s.show.Sequence[cursor]
			a := s.agents[e.Agent]
			a.queue <- e.Command
			batch = append(batch, s.event(a, step, showlog.KindDispatch, e.Command.String(), ""))
			log.Debug("dispatched", "agent", e.Agent, "command", e.Command.String())
			cursor++
		}
		s.emitAll(ctx, batch)

		if cursor >= len(s.show.Sequence) {
			log.Info("table exhausted, stopping")
			break
		}

		s.step.Add(1)
		s.sleep(ctx, s.show.StepTime)
		if ctx.Err() != nil {
			log.Info("show cancelled mid-run")
			s.shutdown()
			return ctx.Err()
		}
	}

	s.shutdown()
	log.Info("show finished", "show_id", s.showID, "final_step", s.Step())
	return nil
}

// shutdown enqueues Quit on every agent queue exactly once, including
// agents the table never referenced, then joins all workers.
func (s *Scheduler) shutdown() {
	for _, a := range s.agents {
		a.queue <- command.Quit{}
	}
	s.wg.Wait()
}

func (s *Scheduler) event(a *Agent, step int, kind, cmd, detail string) showlog.EventRow {
	return showlog.EventRow{
		ShowID:     s.showID,
		AgentID:    a.URI,
		AgentIndex: a.Index,
		Step:       step,
		Kind:       kind,
		Command:    cmd,
		Detail:     detail,
		Timestamp:  s.now().UTC(),
	}
}

// emit serializes writer access; workers and the clock loop log
// concurrently and the writers are not safe for concurrent use.
func (s *Scheduler) emit(ctx context.Context, row showlog.EventRow) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.writer.WriteEvent(row); err != nil {
		logging.FromContext(ctx).Error("event write failed", "kind", row.Kind, "err", err)
	}
}

func (s *Scheduler) emitAll(ctx context.Context, rows []showlog.EventRow) {
	if len(rows) == 0 {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := showlog.WriteAll(s.writer, rows); err != nil {
		logging.FromContext(ctx).Error("event batch write failed", "err", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
