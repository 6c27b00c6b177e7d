package command

import (
	"math"
	"testing"
)

func TestHelixWaypointCount(t *testing.T) {
	h := Helix{Diameter: 1.5, ZStart: 0.3, ZEnd: 1.3, Theta0: 0, Period: 10, Steps: 30, Duration: 3}
	wps := h.Waypoints()
	if len(wps) != h.Steps+1 {
		t.Fatalf("expected %d waypoints, got %d", h.Steps+1, len(wps))
	}
}

func TestHelixEntryWaypoint(t *testing.T) {
	theta0 := math.Pi / 2
	h := Helix{Diameter: 2, ZStart: 0.5, ZEnd: 1.5, Theta0: theta0, Period: 8, Steps: 4, Duration: 3}
	wp := h.Waypoints()[0]

	if got, want := wp.Yaw, theta0-math.Pi/2; math.Abs(got-want) > 1e-9 {
		t.Errorf("entry yaw = %v, want %v", got, want)
	}
	if math.Abs(wp.X) > 1e-9 || math.Abs(wp.Y-1) > 1e-9 {
		t.Errorf("entry position = (%v, %v), want (0, 1)", wp.X, wp.Y)
	}
	if wp.Z != h.ZStart {
		t.Errorf("entry z = %v, want %v", wp.Z, h.ZStart)
	}
	if wp.Duration != h.Duration {
		t.Errorf("entry duration = %v, want %v", wp.Duration, h.Duration)
	}
	if wp.Pause != h.Duration+1 {
		t.Errorf("entry pause = %v, want %v (arrival buffer)", wp.Pause, h.Duration+1)
	}
}

func TestHelixFinalWaypoint(t *testing.T) {
	h := Helix{Diameter: 1.5, ZStart: 0.3, ZEnd: 1.3, Theta0: 0.7, Period: 10, Steps: 30, Duration: 3}
	wps := h.Waypoints()
	last := wps[len(wps)-1]

	if last.Z != h.ZEnd {
		t.Errorf("final z = %v, want exactly %v", last.Z, h.ZEnd)
	}
	// Full revolution: final yaw is theta0 + 2*pi - pi/2.
	if got, want := last.Yaw, h.Theta0+2*math.Pi-math.Pi/2; math.Abs(got-want) > 1e-9 {
		t.Errorf("final yaw = %v, want %v", got, want)
	}
	// Back at the entry position.
	first := wps[0]
	if math.Abs(last.X-first.X) > 1e-9 || math.Abs(last.Y-first.Y) > 1e-9 {
		t.Errorf("final position (%v, %v) does not close the circle at (%v, %v)",
			last.X, last.Y, first.X, first.Y)
	}
}

func TestHelixSubPeriodPacing(t *testing.T) {
	h := Helix{Diameter: 1, ZStart: 0, ZEnd: 2, Theta0: 0, Period: 10, Steps: 5, Duration: 3}
	wps := h.Waypoints()
	sub := h.Period / float64(h.Steps)
	for i, wp := range wps[1:] {
		if wp.Duration != sub {
			t.Errorf("waypoint %d duration = %v, want %v", i+1, wp.Duration, sub)
		}
		if wp.Pause != sub {
			t.Errorf("waypoint %d pause = %v, want %v", i+1, wp.Pause, sub)
		}
	}
	// Linear climb.
	if wps[1].Z != 0.4 {
		t.Errorf("first chord z = %v, want 0.4", wps[1].Z)
	}
}
