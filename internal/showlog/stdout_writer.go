// Writer implementation printing events to STDOUT
package showlog

import (
	"encoding/json"
	"fmt"
)

// StdoutWriter prints event rows to STDOUT as JSON lines.
type StdoutWriter struct{}

// WriteEvent outputs a single event row.
func (w *StdoutWriter) WriteEvent(row EventRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteEvents outputs multiple event rows.
func (w *StdoutWriter) WriteEvents(rows []EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}
