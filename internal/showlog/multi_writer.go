package showlog

// MultiWriter fans events out to several writers.
type MultiWriter struct {
	writers []EventWriter
}

// NewMultiWriter combines writers into one. Nil entries are skipped.
func NewMultiWriter(writers ...EventWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range writers {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// WriteEvent forwards the row to every writer; the first error wins but
// all writers are attempted.
func (m *MultiWriter) WriteEvent(row EventRow) error {
	var err error
	for _, w := range m.writers {
		if e := w.WriteEvent(row); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// WriteEvents forwards a batch to every writer, using each writer's
// batch mode when available.
func (m *MultiWriter) WriteEvents(rows []EventRow) error {
	var err error
	for _, w := range m.writers {
		if e := WriteAll(w, rows); e != nil && err == nil {
			err = e
		}
	}
	return err
}
