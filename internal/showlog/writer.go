package showlog

// EventWriter is an interface to support different output writers.
type EventWriter interface {
	WriteEvent(EventRow) error
}

// Optional: writers can also support batch mode.
type batchEventWriter interface {
	WriteEvents([]EventRow) error
}

// WriteAll writes rows through w, using batch mode when supported.
func WriteAll(w EventWriter, rows []EventRow) error {
	if len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchEventWriter); ok {
		return bw.WriteEvents(rows)
	}
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}
