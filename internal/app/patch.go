package app

// patchState is the tri-state view every shape.Patch offers.
type patchState interface {
	IsAbsent() bool
	IsNull() bool
	String() string
}

// touched collects the fields an update patch carries. set holds every field
// that is not absent; null holds the subset explicitly cleared. values keeps
// the printed form of each touched field for the activity log.
type touched struct {
	set    []string
	null   []string
	values map[string]string
}

func (t *touched) add(name string, p patchState) *touched {
	if p.IsAbsent() {
		return t
	}
	t.set = append(t.set, name)
	if p.IsNull() {
		t.null = append(t.null, name)
	}
	if t.values == nil {
		t.values = make(map[string]string)
	}
	t.values[name] = p.String()
	return t
}
