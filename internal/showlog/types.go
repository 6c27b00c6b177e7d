// Event structs with greptime tags
package showlog

import (
	"os"
	"time"
)

// Event kinds.
const (
	KindDispatch = "dispatch" // scheduler put a command on an agent queue
	KindExec     = "exec"     // worker executed a command
	KindQuit     = "quit"     // worker consumed its quit sentinel
	KindWarn     = "warn"     // worker hit an unknown command
)

// EventRow represents one show event record for GreptimeDB.
type EventRow struct {
	ShowID     string    `json:"show_id"`          // TAG
	AgentID    string    `json:"agent_id"`         // TAG
	AgentIndex int       `json:"agent_index"`      // FIELD
	Step       int       `json:"step"`             // FIELD
	Kind       string    `json:"kind"`             // FIELD
	Command    string    `json:"command"`          // FIELD
	Detail     string    `json:"detail,omitempty"` // FIELD
	Timestamp  time.Time `json:"ts"`               // TIME INDEX
}

// EventTableName holds the table name used when writing to GreptimeDB.
// It defaults to "show_events" but can be overridden via the
// SHOW_EVENT_TABLE environment variable.
var EventTableName = func() string {
	if env := os.Getenv("SHOW_EVENT_TABLE"); env != "" {
		return env
	}
	return "show_events"
}()

func (EventRow) TableName() string {
	return EventTableName
}
