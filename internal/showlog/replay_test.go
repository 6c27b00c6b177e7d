package showlog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestReplayLog(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		enc.Encode(EventRow{
			ShowID:    "show-1",
			Step:      i,
			Kind:      KindDispatch,
			Command:   "land(duration=2.0s)",
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		})
	}

	w := &collectWriter{}
	if err := ReplayLog(&buf, w, 0); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(w.rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(w.rows))
	}
	for i, r := range w.rows {
		if r.Step != i {
			t.Errorf("row %d replayed out of order: step %d", i, r.Step)
		}
	}
}

func TestReplayLogBadInput(t *testing.T) {
	if err := ReplayLog(bytes.NewBufferString("{not json"), &collectWriter{}, 0); err == nil {
		t.Fatal("expected decode error")
	}
}
