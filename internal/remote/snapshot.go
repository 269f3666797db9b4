package remote

import (
	"github.com/dshills/scenepanel/internal/ui"
)

// Snapshot lists the visible sections of store in creation order. It must
// run on the goroutine that owns the store.
func Snapshot(store *ui.Store) []SectionData {
	sections := []SectionData{}
	index := map[uint32]int{}
	for _, w := range store.Widgets() {
		if !store.Visible(w.ID) {
			continue
		}
		if w.IsContainer() {
			index[uint32(w.ID)] = len(sections)
			sections = append(sections, SectionData{Title: w.Title, Fields: []FieldData{}})
			continue
		}
		i, ok := index[uint32(w.Parent)]
		if !ok {
			continue
		}
		f := FieldData{
			ID:    uint32(w.ID),
			Label: w.Title,
			Kind:  w.Spec.Kind.String(),
			Min:   w.Spec.Min,
			Max:   w.Spec.Max,
			Step:  w.Spec.Step,
		}
		if w.Value != nil {
			f.Value = w.Value.String()
		}
		sections[i].Fields = append(sections[i].Fields, f)
	}
	return sections
}
