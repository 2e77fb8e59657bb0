package app

// sortMode orders the note list. sortNone keeps storage order.
type sortMode int

const (
	sortNone sortMode = iota
	sortCreatedAsc
	sortCreatedDesc
	sortLabelAsc
	sortLabelDesc
)

// sortModes is the cycle order used by next and prev.
var sortModes = []sortMode{sortNone, sortCreatedAsc, sortCreatedDesc, sortLabelAsc, sortLabelDesc}

func (s sortMode) index() int {
	for i, mode := range sortModes {
		if mode == s {
			return i
		}
	}
	return 0
}

func (s sortMode) next() sortMode {
	return sortModes[(s.index()+1)%len(sortModes)]
}

func (s sortMode) prev() sortMode {
	n := len(sortModes)
	return sortModes[(n+s.index()-1)%n]
}

// Label is shown under the note list.
func (s sortMode) Label() string {
	switch s {
	case sortCreatedAsc:
		return "<Date ↑>"
	case sortCreatedDesc:
		return "<Date ↓>"
	case sortLabelAsc:
		return "<Abc ↑>"
	case sortLabelDesc:
		return "<Abc ↓>"
	default:
		return "<None>"
	}
}
