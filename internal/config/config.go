// YAML show configuration with CUE schema validation
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"swarmshow/internal/command"
)

// DefaultStepTime is the clock interval used when step_time is not set.
const DefaultStepTime = time.Second

// AgentConfig identifies one vehicle in the fleet.
type AgentConfig struct {
	URI string `yaml:"uri"`
}

// Entry is one dispatched action: at Step, send Command to agent Agent.
type Entry struct {
	Step    int
	Agent   int
	Command command.Command
}

// Show is the validated, fully decoded choreography.
type Show struct {
	Name     string
	StepTime time.Duration
	Agents   []AgentConfig
	Sequence []Entry
}

// rawShow mirrors the YAML document before command decoding.
type rawShow struct {
	Name     string        `yaml:"name"`
	StepTime string        `yaml:"step_time"`
	Agents   []AgentConfig `yaml:"agents"`
	Sequence []rawEntry    `yaml:"sequence"`
}

// rawEntry carries exactly one of the command keys.
type rawEntry struct {
	Step    int         `yaml:"step"`
	Agent   int         `yaml:"agent"`
	Takeoff *takeoffRaw `yaml:"takeoff"`
	Land    *landRaw    `yaml:"land"`
	GoTo    *gotoRaw    `yaml:"goto"`
	Ring    *ringRaw    `yaml:"ring"`
	Helix   *helixRaw   `yaml:"helix"`
}

type takeoffRaw struct {
	Height   float64 `yaml:"height"`
	Duration float64 `yaml:"duration"`
}

type landRaw struct {
	Duration float64 `yaml:"duration"`
}

type gotoRaw struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Duration float64 `yaml:"duration"`
}

type ringRaw struct {
	R         int     `yaml:"r"`
	G         int     `yaml:"g"`
	B         int     `yaml:"b"`
	Intensity float64 `yaml:"intensity"`
	Fade      float64 `yaml:"fade"`
}

type helixRaw struct {
	Diameter float64 `yaml:"diameter"`
	ZStart   float64 `yaml:"z_start"`
	ZEnd     float64 `yaml:"z_end"`
	Theta0   float64 `yaml:"theta0"`
	Period   float64 `yaml:"period"`
	Steps    int     `yaml:"steps"`
	Duration float64 `yaml:"duration"`
}

// Load reads a YAML show definition, validates it against the CUE
// schema when schemaPath is non-empty, and runs structural validation.
// All configuration errors surface here, before the scheduler starts.
func Load(path, schemaPath string) (*Show, error) {
	if schemaPath != "" {
		if err := ValidateWithCue(path, schemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read show config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML show document.
func Parse(data []byte) (*Show, error) {
	var raw rawShow
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse show config: %w", err)
	}

	show := &Show{
		Name:     raw.Name,
		StepTime: DefaultStepTime,
		Agents:   raw.Agents,
	}
	if raw.StepTime != "" {
		d, err := time.ParseDuration(raw.StepTime)
		if err != nil {
			return nil, fmt.Errorf("parse step_time: %w", err)
		}
		show.StepTime = d
	}

	for i, re := range raw.Sequence {
		cmd, err := re.decode()
		if err != nil {
			return nil, fmt.Errorf("sequence entry %d: %w", i, err)
		}
		show.Sequence = append(show.Sequence, Entry{Step: re.Step, Agent: re.Agent, Command: cmd})
	}

	if err := show.Validate(); err != nil {
		return nil, err
	}
	return show, nil
}

func (re rawEntry) decode() (command.Command, error) {
	var cmds []command.Command
	if re.Takeoff != nil {
		cmds = append(cmds, command.Takeoff{Height: re.Takeoff.Height, Duration: re.Takeoff.Duration})
	}
	if re.Land != nil {
		cmds = append(cmds, command.Land{Duration: re.Land.Duration})
	}
	if re.GoTo != nil {
		cmds = append(cmds, command.GoTo{X: re.GoTo.X, Y: re.GoTo.Y, Z: re.GoTo.Z, Duration: re.GoTo.Duration})
	}
	if re.Ring != nil {
		cmds = append(cmds, command.Ring{
			R: re.Ring.R, G: re.Ring.G, B: re.Ring.B,
			Intensity:    re.Ring.Intensity,
			FadeDuration: re.Ring.Fade,
		})
	}
	if re.Helix != nil {
		cmds = append(cmds, command.Helix{
			Diameter: re.Helix.Diameter,
			ZStart:   re.Helix.ZStart,
			ZEnd:     re.Helix.ZEnd,
			Theta0:   re.Helix.Theta0,
			Period:   re.Helix.Period,
			Steps:    re.Helix.Steps,
			Duration: re.Helix.Duration,
		})
	}
	switch len(cmds) {
	case 0:
		return nil, fmt.Errorf("no command given")
	case 1:
		return cmds[0], nil
	default:
		return nil, fmt.Errorf("multiple commands given, want exactly one")
	}
}

// Validate checks the fleet and table invariants: at least one agent,
// unique URIs, known agent indices, non-negative and non-decreasing
// steps, and per-command parameter bounds.
func (s *Show) Validate() error {
	if len(s.Agents) == 0 {
		return fmt.Errorf("no agents configured")
	}
	if s.StepTime <= 0 {
		return fmt.Errorf("step_time must be positive, got %s", s.StepTime)
	}
	seen := make(map[string]int, len(s.Agents))
	for i, a := range s.Agents {
		if a.URI == "" {
			return fmt.Errorf("agent %d: empty uri", i)
		}
		if j, dup := seen[a.URI]; dup {
			return fmt.Errorf("agent %d: uri %q already used by agent %d", i, a.URI, j)
		}
		seen[a.URI] = i
	}

	prevStep := 0
	for i, e := range s.Sequence {
		if e.Step < 0 {
			return fmt.Errorf("sequence entry %d: negative step %d", i, e.Step)
		}
		if e.Step < prevStep {
			return fmt.Errorf("sequence entry %d: step %d after step %d, table must be sorted by step", i, e.Step, prevStep)
		}
		prevStep = e.Step
		if e.Agent < 0 || e.Agent >= len(s.Agents) {
			return fmt.Errorf("sequence entry %d: unknown agent %d (have %d agents)", i, e.Agent, len(s.Agents))
		}
		if err := validateCommand(e.Command); err != nil {
			return fmt.Errorf("sequence entry %d: %w", i, err)
		}
	}
	return nil
}

func validateCommand(cmd command.Command) error {
	switch c := cmd.(type) {
	case command.Takeoff:
		if c.Height <= 0 {
			return fmt.Errorf("takeoff height must be positive, got %v", c.Height)
		}
	case command.Ring:
		for _, ch := range []int{c.R, c.G, c.B} {
			if ch < 0 || ch > 255 {
				return fmt.Errorf("ring channel out of range 0-255: %d", ch)
			}
		}
		if c.Intensity < 0 || c.Intensity > 1 {
			return fmt.Errorf("ring intensity out of range 0-1: %v", c.Intensity)
		}
	case command.Helix:
		if c.Steps < 1 {
			return fmt.Errorf("helix steps must be >= 1, got %d", c.Steps)
		}
		if c.Period <= 0 {
			return fmt.Errorf("helix period must be positive, got %v", c.Period)
		}
	case command.Quit:
		return fmt.Errorf("quit is reserved for the scheduler")
	}
	return nil
}

// LastStep returns the highest step in the table, or -1 when empty.
func (s *Show) LastStep() int {
	if len(s.Sequence) == 0 {
		return -1
	}
	return s.Sequence[len(s.Sequence)-1].Step
}
