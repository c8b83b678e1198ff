package picking

import (
	"slices"

	"github.com/Beginsangod/Painter/internal/engine/scene"
)

// Selection is the ordered set of selected items.
type Selection struct {
	items []*scene.Item
}

// Items returns the selected items in selection order.
func (s *Selection) Items() []*scene.Item {
	return slices.Clone(s.items)
}

// Len returns the number of selected items.
func (s *Selection) Len() int { return len(s.items) }

// Contains reports whether it is selected.
func (s *Selection) Contains(it *scene.Item) bool {
	return slices.Contains(s.items, it)
}

// Apply merges pick candidates into the selection. Without candidates a
// plain release clears everything and a modified one keeps the selection.
// With candidates a plain release toggles each one and a modified release
// only adds.
func (s *Selection) Apply(candidates []*scene.Item, modifier bool) {
	if len(candidates) == 0 {
		if !modifier {
			s.Clear()
		}
		return
	}

	for _, it := range candidates {
		i := slices.Index(s.items, it)
		switch {
		case i >= 0 && !modifier:
			it.SetSelected(false, true)
			s.items = slices.Delete(s.items, i, i+1)
		case i < 0:
			it.SetSelected(true, true)
			s.items = append(s.items, it)
		}
	}
}

// Remove drops it without touching its flag, used when an item leaves the scene.
func (s *Selection) Remove(it *scene.Item) {
	if i := slices.Index(s.items, it); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

// Clear deselects every item.
func (s *Selection) Clear() {
	for _, it := range s.items {
		it.SetSelected(false, true)
	}
	s.items = nil
}
