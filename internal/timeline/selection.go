package timeline

// Selection is an insertion-ordered set of keyframe ids. It crosses track
// and property boundaries.
type Selection struct {
	ids   []KeyframeID
	index map[KeyframeID]int
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{index: make(map[KeyframeID]int)}
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id KeyframeID) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []KeyframeID {
	out := make([]KeyframeID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Add selects id; it is a no-op when already selected.
func (s *Selection) Add(id KeyframeID) {
	if s.Contains(id) {
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
}

// Remove deselects id.
func (s *Selection) Remove(id KeyframeID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
}

// Replace makes ids the whole selection.
func (s *Selection) Replace(ids ...KeyframeID) {
	s.Clear()
	for _, id := range ids {
		s.Add(id)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	s.index = make(map[KeyframeID]int)
}

// Primary returns the first selected id.
func (s *Selection) Primary() (KeyframeID, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[0], true
}

// Clipboard is a snapshot of copied keyframes anchored at the earliest
// copied time. Paste offsets are measured from Anchor.
type Clipboard struct {
	Anchor    float64
	Keyframes []Keyframe
}

// Empty reports whether nothing has been copied.
func (c Clipboard) Empty() bool {
	return len(c.Keyframes) == 0
}
