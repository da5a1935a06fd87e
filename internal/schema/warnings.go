package schema

// Warnings ordered set of human-readable warning strings, deduplicated by
// exact match
type Warnings struct {
	seen  map[string]struct{}
	order []string
}

func NewWarnings() *Warnings {
	return &Warnings{seen: make(map[string]struct{})}
}

// Add appends msg unless the exact string was already recorded
func (w *Warnings) Add(msg string) {
	if msg == "" {
		return
	}
	if _, ok := w.seen[msg]; ok {
		return
	}
	w.seen[msg] = struct{}{}
	w.order = append(w.order, msg)
}

func (w *Warnings) AddAll(msgs []string) {
	for _, msg := range msgs {
		w.Add(msg)
	}
}

// List returns the warnings in insertion order, never nil
func (w *Warnings) List() []string {
	result := make([]string, len(w.order))
	copy(result, w.order)
	return result
}
