package layout

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/schemaflow/pkg/route"
)

// Rect is a node's placement: top-left corner plus the node's drawn size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Positions is a store of node placements keyed by node ID. It is owned by
// whoever displays the diagram: [Compute] seeds it, direct manipulation moves
// entries, and nothing in the graph itself holds coordinates.
//
// Positions is not safe for concurrent use; the owner serializes access.
type Positions struct {
	ids   []string
	rects map[string]Rect
}

// NewPositions returns an empty store.
func NewPositions() *Positions {
	return &Positions{rects: make(map[string]Rect)}
}

// Set stores r for id, keeping id's original slot if it already exists.
func (p *Positions) Set(id string, r Rect) {
	if _, ok := p.rects[id]; !ok {
		p.ids = append(p.ids, id)
	}
	p.rects[id] = r
}

// Get returns the placement of id.
func (p *Positions) Get(id string) (Rect, bool) {
	if p == nil {
		return Rect{}, false
	}
	r, ok := p.rects[id]
	return r, ok
}

// Box returns the placement of id as a routing box, so a store can be handed
// straight to [route.RouteEdge].
func (p *Positions) Box(id string) (route.Box, bool) {
	r, ok := p.Get(id)
	return route.Box(r), ok
}

// Move sets the top-left corner of id, keeping its size. It reports whether
// id was present.
func (p *Positions) Move(id string, x, y float64) bool {
	r, ok := p.rects[id]
	if !ok {
		return false
	}
	r.X, r.Y = x, y
	p.rects[id] = r
	return true
}

// Delete removes id from the store.
func (p *Positions) Delete(id string) {
	if _, ok := p.rects[id]; !ok {
		return
	}
	delete(p.rects, id)
	p.ids = slices.DeleteFunc(p.ids, func(s string) bool { return s == id })
}

// IDs returns the stored IDs in insertion order.
func (p *Positions) IDs() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.ids)
}

// Len returns the number of stored placements.
func (p *Positions) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ids)
}

// Clone returns an independent copy.
func (p *Positions) Clone() *Positions {
	if p == nil {
		return NewPositions()
	}
	return &Positions{ids: slices.Clone(p.ids), rects: maps.Clone(p.rects)}
}

// Snapshot returns the placements as a plain map.
func (p *Positions) Snapshot() map[string]Rect {
	if p == nil {
		return map[string]Rect{}
	}
	return maps.Clone(p.rects)
}

type positionEntry struct {
	ID string `json:"id"`
	Rect
}

// MarshalJSON encodes the store as an ordered list of {id, x, y, width, height}.
func (p *Positions) MarshalJSON() ([]byte, error) {
	out := make([]positionEntry, 0, p.Len())
	for _, id := range p.IDs() {
		out = append(out, positionEntry{ID: id, Rect: p.rects[id]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (p *Positions) UnmarshalJSON(data []byte) error {
	var in []positionEntry
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = *NewPositions()
	for _, e := range in {
		p.Set(e.ID, e.Rect)
	}
	return nil
}
