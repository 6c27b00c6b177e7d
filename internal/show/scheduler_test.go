package show

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"swarmshow/internal/command"
	"swarmshow/internal/config"
	"swarmshow/internal/flight"
	"swarmshow/internal/showlog"
)

// mockCommander records the primitives it receives.
type mockCommander struct {
	mu    sync.Mutex
	calls []string
}

func (m *mockCommander) record(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, s)
}

func (m *mockCommander) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockCommander) Takeoff(height, duration float64) error {
	m.record(fmt.Sprintf("takeoff %.2f %.2f", height, duration))
	return nil
}

func (m *mockCommander) Land(height, duration float64) error {
	m.record(fmt.Sprintf("land %.2f %.2f", height, duration))
	return nil
}

func (m *mockCommander) GoTo(x, y, z, yaw, duration float64) error {
	m.record(fmt.Sprintf("goto %.2f %.2f %.2f %.4f %.2f", x, y, z, yaw, duration))
	return nil
}

func (m *mockCommander) SetParam(name, value string) error {
	m.record(fmt.Sprintf("param %s=%s", name, value))
	return nil
}

// eventRecorder collects event rows; the scheduler serializes access.
type eventRecorder struct {
	rows []showlog.EventRow
}

func (w *eventRecorder) WriteEvent(row showlog.EventRow) error {
	w.rows = append(w.rows, row)
	return nil
}

func (w *eventRecorder) kind(kind string) []showlog.EventRow {
	var out []showlog.EventRow
	for _, r := range w.rows {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func (w *eventRecorder) agentKind(agent int, kind string) []showlog.EventRow {
	var out []showlog.EventRow
	for _, r := range w.kind(kind) {
		if r.AgentIndex == agent {
			out = append(out, r)
		}
	}
	return out
}

func twoAgents() []config.AgentConfig {
	return []config.AgentConfig{
		{URI: "radio://0/80/2M/E7E7E7E701"},
		{URI: "radio://0/80/2M/E7E7E7E702"},
	}
}

// newTestScheduler wires mock commanders and an instant clock.
func newTestScheduler(t *testing.T, cfg *config.Show) (*Scheduler, []*mockCommander, *eventRecorder) {
	t.Helper()
	cmds := make([]*mockCommander, len(cfg.Agents))
	commanders := make([]flight.Commander, len(cfg.Agents))
	for i := range cmds {
		cmds[i] = &mockCommander{}
		commanders[i] = cmds[i]
	}
	rec := &eventRecorder{}
	s, err := New(cfg, commanders, rec)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.sleep = func(context.Context, time.Duration) {}
	return s, cmds, rec
}

// motion filters out the parameter setup preamble.
func motion(calls []string) []string {
	var out []string
	for _, c := range calls {
		if !strings.HasPrefix(c, "param ") {
			out = append(out, c)
		}
	}
	return out
}

func TestSchedulerEndToEnd(t *testing.T) {
	cfg := &config.Show{
		Name:     "end-to-end",
		StepTime: time.Second,
		Agents:   twoAgents(),
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: command.Takeoff{Height: 0.5, Duration: 2}},
			{Step: 0, Agent: 1, Command: command.Takeoff{Height: 0.5, Duration: 2}},
			{Step: 2, Agent: 0, Command: command.Land{Duration: 2}},
			{Step: 2, Agent: 1, Command: command.Land{Duration: 2}},
		},
	}
	s, cmds, rec := newTestScheduler(t, cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for i, c := range cmds {
		got := motion(c.Calls())
		want := []string{"takeoff 0.50 2.00", "land 0.00 2.00"}
		if len(got) != len(want) {
			t.Fatalf("agent %d: calls %v, want %v", i, got, want)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("agent %d call %d = %q, want %q", i, j, got[j], want[j])
			}
		}
	}

	// Dispatch happens at the commanded steps.
	for i := 0; i < 2; i++ {
		disp := rec.agentKind(i, showlog.KindDispatch)
		if len(disp) != 2 || disp[0].Step != 0 || disp[1].Step != 2 {
			t.Errorf("agent %d dispatch steps wrong: %+v", i, disp)
		}
		quits := rec.agentKind(i, showlog.KindQuit)
		if len(quits) != 1 {
			t.Errorf("agent %d received %d quits, want exactly 1", i, len(quits))
		}
	}
}

func TestPerAgentOrderMatchesTableOrder(t *testing.T) {
	cfg := &config.Show{
		StepTime: time.Second,
		Agents:   twoAgents(),
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: command.Takeoff{Height: 0.5, Duration: 2}},
			{Step: 1, Agent: 0, Command: command.GoTo{X: 1, Duration: 1}},
			{Step: 1, Agent: 1, Command: command.Takeoff{Height: 1.2, Duration: 2}},
			{Step: 1, Agent: 0, Command: command.GoTo{X: 2, Duration: 1}},
			{Step: 3, Agent: 0, Command: command.Land{Duration: 2}},
		},
	}
	s, cmds, rec := newTestScheduler(t, cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := motion(cmds[0].Calls())
	want := []string{
		"takeoff 0.50 2.00",
		"goto 1.00 0.00 0.00 0.0000 1.00",
		"goto 2.00 0.00 0.00 0.0000 1.00",
		"land 0.00 2.00",
	}
	if len(got) != len(want) {
		t.Fatalf("agent 0 executed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("agent 0 call %d = %q, want %q", i, got[i], want[i])
		}
	}

	// Multiset: exec events per agent match the table restricted to it.
	if n := len(rec.agentKind(0, showlog.KindExec)); n != 4 {
		t.Errorf("agent 0 exec events = %d, want 4", n)
	}
	if n := len(rec.agentKind(1, showlog.KindExec)); n != 1 {
		t.Errorf("agent 1 exec events = %d, want 1", n)
	}
}

func TestDispatchIsMonotonicInSteps(t *testing.T) {
	cfg := &config.Show{
		StepTime: time.Second,
		Agents:   twoAgents(),
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: command.Takeoff{Height: 0.5, Duration: 2}},
			{Step: 0, Agent: 1, Command: command.Takeoff{Height: 0.5, Duration: 2}},
			{Step: 2, Agent: 1, Command: command.GoTo{X: 1, Duration: 1}},
			{Step: 2, Agent: 0, Command: command.GoTo{X: -1, Duration: 1}},
			{Step: 5, Agent: 0, Command: command.Land{Duration: 2}},
			{Step: 5, Agent: 1, Command: command.Land{Duration: 2}},
		},
	}
	s, _, rec := newTestScheduler(t, cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	disp := rec.kind(showlog.KindDispatch)
	if len(disp) != len(cfg.Sequence) {
		t.Fatalf("dispatched %d entries, want %d", len(disp), len(cfg.Sequence))
	}
	prev := 0
	for i, d := range disp {
		if d.Step < prev {
			t.Errorf("dispatch %d at step %d after step %d", i, d.Step, prev)
		}
		prev = d.Step
	}
}

func TestUnreferencedAgentStillGetsQuit(t *testing.T) {
	cfg := &config.Show{
		StepTime: time.Second,
		Agents: append(twoAgents(),
			config.AgentConfig{URI: "radio://0/80/2M/E7E7E7E703"}),
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: command.Takeoff{Height: 0.5, Duration: 2}},
			{Step: 1, Agent: 0, Command: command.Land{Duration: 2}},
		},
	}
	s, cmds, rec := newTestScheduler(t, cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for i := 1; i < 3; i++ {
		if n := len(motion(cmds[i].Calls())); n != 0 {
			t.Errorf("idle agent %d executed %d motion commands", i, n)
		}
		if n := len(rec.agentKind(i, showlog.KindQuit)); n != 1 {
			t.Errorf("idle agent %d quit events = %d, want 1", i, n)
		}
	}
}

func TestRingGoesThroughParamChannel(t *testing.T) {
	cfg := &config.Show{
		StepTime: time.Second,
		Agents:   twoAgents()[:1],
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: command.Ring{R: 255, G: 0, B: 0, Intensity: 1, FadeDuration: 1.5}},
		},
	}
	s, cmds, _ := newTestScheduler(t, cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	calls := cmds[0].Calls()
	var fadeTime, fadeColor string
	// Skip the setup preamble; the ring command params come last.
	for _, c := range calls[5:] {
		if strings.HasPrefix(c, "param ring.fadeTime=") {
			fadeTime = c
		}
		if strings.HasPrefix(c, "param ring.fadeColor=") {
			fadeColor = c
		}
	}
	if fadeTime != "param ring.fadeTime=1.5" {
		t.Errorf("fade time param = %q", fadeTime)
	}
	if fadeColor != "param ring.fadeColor=16711680" {
		t.Errorf("fade color param = %q, want packed 0xFF0000", fadeColor)
	}
	if n := len(motion(calls)); n != 0 {
		t.Errorf("ring issued %d motion commands, want none", n)
	}
}

func TestHelixExpansionAndPacing(t *testing.T) {
	helix := command.Helix{Diameter: 2, ZStart: 0, ZEnd: 2, Theta0: 0, Period: 8, Steps: 4, Duration: 3}
	cfg := &config.Show{
		StepTime: time.Second,
		Agents:   twoAgents()[:1],
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: helix},
		},
	}
	s, cmds, _ := newTestScheduler(t, cfg)

	var mu sync.Mutex
	var pauses []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) {
		mu.Lock()
		pauses = append(pauses, d)
		mu.Unlock()
	}

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	moves := motion(cmds[0].Calls())
	if len(moves) != helix.Steps+1 {
		t.Fatalf("helix issued %d waypoints, want %d", len(moves), helix.Steps+1)
	}
	entryYaw := fmt.Sprintf("%.4f", -math.Pi/2)
	if !strings.Contains(moves[0], entryYaw) {
		t.Errorf("entry waypoint %q missing yaw %s", moves[0], entryYaw)
	}

	// The worker paces the sweep: duration+1 after the entry point, then
	// period/steps between chords. The scheduler's own tick sleeps are
	// also recorded, so filter to the helix pauses.
	var helixPauses []time.Duration
	mu.Lock()
	for _, p := range pauses {
		if p == 4*time.Second || p == 2*time.Second {
			helixPauses = append(helixPauses, p)
		}
	}
	mu.Unlock()
	if len(helixPauses) != helix.Steps+1 {
		t.Fatalf("helix paused %d times, want %d", len(helixPauses), helix.Steps+1)
	}
	if helixPauses[0] != 4*time.Second {
		t.Errorf("entry pause = %s, want 4s arrival buffer", helixPauses[0])
	}
	for i, p := range helixPauses[1:] {
		if p != 2*time.Second {
			t.Errorf("chord pause %d = %s, want 2s", i+1, p)
		}
	}
}

// mysteryCommand satisfies command.Command via embedding but is not a
// known variant, so it exercises the worker's defensive branch.
type mysteryCommand struct{ command.Takeoff }

func TestUnknownCommandWarnsAndContinues(t *testing.T) {
	cfg := &config.Show{
		StepTime: time.Second,
		Agents:   twoAgents()[:1],
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: mysteryCommand{}},
			{Step: 1, Agent: 0, Command: command.Land{Duration: 2}},
		},
	}
	s, cmds, rec := newTestScheduler(t, cfg)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if n := len(rec.agentKind(0, showlog.KindWarn)); n != 1 {
		t.Errorf("warn events = %d, want 1", n)
	}
	got := motion(cmds[0].Calls())
	if len(got) != 1 || got[0] != "land 0.00 2.00" {
		t.Errorf("commands after unknown variant = %v, want just the land", got)
	}
	// The unknown command produced no exec event.
	if n := len(rec.agentKind(0, showlog.KindExec)); n != 1 {
		t.Errorf("exec events = %d, want 1", n)
	}
}

func TestCancelStopsRunAndQuitsWorkers(t *testing.T) {
	cfg := &config.Show{
		StepTime: time.Hour,
		Agents:   twoAgents(),
		Sequence: []config.Entry{
			{Step: 0, Agent: 0, Command: command.Takeoff{Height: 0.5, Duration: 2}},
			{Step: 100, Agent: 1, Command: command.Land{Duration: 2}},
		},
	}
	cmds := make([]flight.Commander, len(cfg.Agents))
	mocks := make([]*mockCommander, len(cfg.Agents))
	for i := range cmds {
		mocks[i] = &mockCommander{}
		cmds[i] = mocks[i]
	}
	rec := &eventRecorder{}
	s, err := New(cfg, cmds, rec)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	if err := s.Run(ctx); err != context.Canceled {
		t.Fatalf("run returned %v, want context.Canceled", err)
	}
	if n := len(rec.kind(showlog.KindQuit)); n != 2 {
		t.Errorf("quit events = %d, want one per agent", n)
	}
}

func TestNewRejectsCommanderMismatch(t *testing.T) {
	cfg := &config.Show{StepTime: time.Second, Agents: twoAgents()}
	if _, err := New(cfg, []flight.Commander{&mockCommander{}}, &eventRecorder{}); err == nil {
		t.Fatal("expected error for commander/agent count mismatch")
	}
}
