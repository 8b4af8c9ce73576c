package progress

// Writer adapts a task to io.Writer: every write advances the task by the
// number of bytes written. Wrap it around a destination with io.MultiWriter
// or hand it to io.Copy to track a byte stream. Set the task's total to the
// expected byte count.
type Writer struct {
	progress *Progress
	id       TaskID
}

// NewWriter creates a Writer advancing the given task.
func NewWriter(p *Progress, id TaskID) *Writer {
	return &Writer{progress: p, id: id}
}

// Write advances the task by len(b).
func (w *Writer) Write(b []byte) (int, error) {
	if err := w.progress.Update(w.id, Advance(float64(len(b)))); err != nil {
		return 0, err
	}
	return len(b), nil
}
