package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// Handle addresses a node slot in a Graph. A slot's generation increases
// every time it is freed, so a handle to a removed node never resolves to
// whatever reuses the slot. The zero Handle addresses nothing.
type Handle struct {
	Index      uint32
	Generation uint32
}

// None is the empty handle.
var None = Handle{}

// IsNone reports whether h is the empty handle.
func (h Handle) IsNone() bool { return h.Generation == 0 }

func (h Handle) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

type slot struct {
	generation uint32
	node       Node
}

// Graph is a generational pool of nodes.
//
// Graph is not safe for concurrent use. It is owned by the application loop.
type Graph struct {
	slots []slot
	free  []uint32
	byID  map[uuid.UUID]Handle
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{byID: make(map[uuid.UUID]Handle)}
}

// Add inserts a node and returns its handle.
func (g *Graph) Add(n Node) Handle {
	var h Handle
	if last := len(g.free) - 1; last >= 0 {
		idx := g.free[last]
		g.free = g.free[:last]
		s := &g.slots[idx]
		s.node = n
		h = Handle{Index: idx, Generation: s.generation}
	} else {
		g.slots = append(g.slots, slot{generation: 1, node: n})
		h = Handle{Index: uint32(len(g.slots) - 1), Generation: 1}
	}
	g.byID[n.Common().ID] = h
	return h
}

// Resolve returns the live node for h.
func (g *Graph) Resolve(h Handle) (Node, bool) {
	if h.IsNone() || int(h.Index) >= len(g.slots) {
		return nil, false
	}
	s := g.slots[h.Index]
	if s.generation != h.Generation || s.node == nil {
		return nil, false
	}
	return s.node, true
}

// Replace swaps the node stored under h, keeping the handle valid.
func (g *Graph) Replace(h Handle, n Node) error {
	old, ok := g.Resolve(h)
	if !ok {
		return ErrStaleHandle
	}
	delete(g.byID, old.Common().ID)
	g.slots[h.Index].node = n
	g.byID[n.Common().ID] = h
	return nil
}

// Remove frees the slot for h. It reports whether a node was removed.
func (g *Graph) Remove(h Handle) bool {
	n, ok := g.Resolve(h)
	if !ok {
		return false
	}
	delete(g.byID, n.Common().ID)
	s := &g.slots[h.Index]
	s.node = nil
	s.generation++
	g.free = append(g.free, h.Index)
	return true
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.slots) - len(g.free)
}

// Handles returns the handles of all live nodes in slot order.
func (g *Graph) Handles() []Handle {
	out := make([]Handle, 0, g.Len())
	for i, s := range g.slots {
		if s.node != nil {
			out = append(out, Handle{Index: uint32(i), Generation: s.generation})
		}
	}
	return out
}

// FindByID returns the handle of the node with the given id.
func (g *Graph) FindByID(id uuid.UUID) (Handle, bool) {
	h, ok := g.byID[id]
	return h, ok
}

// FindByName returns the first node in slot order with the given name.
func (g *Graph) FindByName(name string) (Handle, bool) {
	for _, h := range g.Handles() {
		n, _ := g.Resolve(h)
		if n.Common().Name == name {
			return h, true
		}
	}
	return None, false
}

// MergeResult counts what Merge changed.
type MergeResult struct {
	Added   int
	Updated int
	Removed int
}

// Changed reports whether the merge touched the graph.
func (r MergeResult) Changed() bool {
	return r.Added+r.Updated+r.Removed > 0
}

// Merge makes the graph hold exactly nodes, matching by id. Nodes whose id
// is already present keep their handle and are replaced in place; nodes no
// longer present are removed.
func (g *Graph) Merge(nodes []Node) MergeResult {
	var res MergeResult
	keep := make(map[uuid.UUID]bool, len(nodes))

	for _, n := range nodes {
		id := n.Common().ID
		keep[id] = true
		if h, ok := g.FindByID(id); ok {
			old, _ := g.Resolve(h)
			if !sameNode(old, n) {
				g.slots[h.Index].node = n
				res.Updated++
			}
			continue
		}
		g.Add(n)
		res.Added++
	}

	for _, h := range g.Handles() {
		n, _ := g.Resolve(h)
		if !keep[n.Common().ID] {
			g.Remove(h)
			res.Removed++
		}
	}
	return res
}

func sameNode(a, b Node) bool {
	switch av := a.(type) {
	case *Sprite:
		bv, ok := b.(*Sprite)
		return ok && *av == *bv
	case *Light:
		bv, ok := b.(*Light)
		return ok && *av == *bv
	case *Pivot:
		bv, ok := b.(*Pivot)
		return ok && *av == *bv
	default:
		panic("scene: unhandled node variant")
	}
}
