package app

import (
	"github.com/dshills/scenepanel/internal/scene"
)

// Selection tracks the node being inspected. It stores a handle, never a
// node, so it can go stale when the node is removed.
type Selection struct {
	graph  *scene.Graph
	handle scene.Handle
}

// NewSelection selects the first node of g, if any.
func NewSelection(g *scene.Graph) *Selection {
	s := &Selection{graph: g}
	s.First()
	return s
}

// Selected returns the selected handle. The handle may be stale.
func (s *Selection) Selected() (scene.Handle, bool) {
	return s.handle, !s.handle.IsNone()
}

// Set selects h.
func (s *Selection) Set(h scene.Handle) {
	s.handle = h
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.handle = scene.None
}

// First selects the first node in graph order.
func (s *Selection) First() {
	handles := s.graph.Handles()
	if len(handles) == 0 {
		s.handle = scene.None
		return
	}
	s.handle = handles[0]
}

// Next selects the following node, wrapping around.
func (s *Selection) Next() { s.step(1) }

// Prev selects the preceding node, wrapping around.
func (s *Selection) Prev() { s.step(-1) }

func (s *Selection) step(delta int) {
	handles := s.graph.Handles()
	if len(handles) == 0 {
		s.handle = scene.None
		return
	}
	idx := -1
	for i, h := range handles {
		if h == s.handle {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.handle = handles[0]
		return
	}
	s.handle = handles[(idx+delta+len(handles))%len(handles)]
}

// Node resolves the selection.
func (s *Selection) Node() (scene.Node, bool) {
	if s.handle.IsNone() {
		return nil, false
	}
	return s.graph.Resolve(s.handle)
}

// Repair moves a stale selection to the first node and reports whether it
// changed.
func (s *Selection) Repair() bool {
	if _, ok := s.Node(); ok {
		return false
	}
	before := s.handle
	s.First()
	return s.handle != before
}
