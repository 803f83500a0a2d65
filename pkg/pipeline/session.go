package pipeline

import (
	"context"
	"sync"

	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/route"
	"github.com/matzehuels/schemaflow/pkg/schema"
)

// Session is one diagram being edited. It owns the position store: layout
// seeds it, [Session.Move] writes to it directly, and routing and rendering
// read it.
//
// Update keeps the last good state when the new text cannot be processed, so
// a display bound to the session never goes blank on a typo.
//
// All methods are safe for concurrent use.
type Session struct {
	runner *Runner
	opts   Options

	mu     sync.RWMutex
	text   string
	schema *schema.Schema
	graph  erd.Graph
	result layout.Result
	pos    *layout.Positions
}

// State is a copy of a session's current state.
type State struct {
	Text      string
	Schema    *schema.Schema
	Graph     erd.Graph
	Layout    layout.Result
	Positions *layout.Positions
}

// NewSession starts an empty session. A nil runner gets an uncached one.
func NewSession(runner *Runner, opts Options) (*Session, error) {
	if runner == nil {
		runner = NewRunner(nil, nil, nil)
	}
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	runner.applyLogger(&opts)
	return &Session{
		runner: runner,
		opts:   opts,
		schema: schema.New(),
		result: layout.Result{Direction: opts.Layout.Direction, Nodes: []layout.Node{}, Edges: []layout.Edge{}},
		pos:    layout.NewPositions(),
	}, nil
}

// Update replaces the schema with text and re-lays out the diagram. Text
// that parses to the current schema changes nothing and keeps moved tables
// where they are. On error the previous state is kept and the error is
// returned after being logged.
func (s *Session) Update(ctx context.Context, text string) error {
	sch, err := Parse(text)
	if err != nil {
		s.opts.Logger.Warn("keeping previous diagram", "stage", "parse", "error", err)
		return err
	}

	s.mu.RLock()
	unchanged := s.schema.Equal(sch)
	s.mu.RUnlock()
	if unchanged {
		s.mu.Lock()
		s.text = text
		s.mu.Unlock()
		return nil
	}

	g := Build(sch, s.opts)
	res, err := s.runner.ComputeLayout(ctx, g, s.current())
	if err != nil {
		s.opts.Logger.Warn("keeping previous diagram", "stage", "layout", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.schema, s.graph, s.result = text, sch, g, res
	s.pos = res.Positions()
	s.opts.Logger.Debug("session updated", "tables", len(g.Nodes), "refs", len(g.Edges))
	return nil
}

// Relayout recomputes positions for the current schema, discarding moves.
// An empty dir keeps the current direction. Calling it twice with the same
// direction yields the same positions.
func (s *Session) Relayout(ctx context.Context, dir layout.Direction) error {
	opts := s.current()
	if dir != "" {
		opts.Layout.Direction = dir
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	res, err := s.runner.ComputeLayout(ctx, g, opts)
	if err != nil {
		s.opts.Logger.Warn("keeping previous layout", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Layout.Direction = opts.Layout.Direction
	s.result = res
	s.pos = res.Positions()
	return nil
}

// Move places the top-left corner of table id at (x, y).
func (s *Session) Move(id string, x, y float64) error {
	if err := errors.ValidateNodeID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pos.Move(id, x, y) {
		return errors.New(errors.ErrCodeNotFound, "table %q is not on the diagram", id)
	}
	return nil
}

// Box reports the current box of table id, so a session can be routed
// against directly.
func (s *Session) Box(id string) (route.Box, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos.Box(id)
}

// Routes routes every edge against the current positions.
func (s *Session) Routes(ctx context.Context) ([]route.Routed, error) {
	st := s.State()
	return Routes(ctx, st.Layout, st.Positions)
}

// Render draws the diagram at its current positions in every format opts
// names. Layout fields of opts are ignored.
func (s *Session) Render(ctx context.Context, opts Options) (map[string][]byte, error) {
	st := s.State()
	cur := s.current()
	opts.Layout, opts.NodeWidth = cur.Layout, cur.NodeWidth
	return s.runner.Render(ctx, st.Layout, st.Positions, opts)
}

// Restore loads a saved session: text is parsed and laid out, then every
// saved position for a table that still exists overrides the computed one.
// Unlike Update, a failure here leaves the session empty.
func (s *Session) Restore(ctx context.Context, text string, dir layout.Direction, saved *layout.Positions) error {
	if dir != "" {
		s.mu.Lock()
		s.opts.Layout.Direction = dir
		s.mu.Unlock()
	}
	sch, err := Parse(text)
	if err != nil {
		return err
	}
	g := Build(sch, s.opts)
	res, err := s.runner.ComputeLayout(ctx, g, s.current())
	if err != nil {
		return err
	}
	pos := res.Positions()
	for _, id := range saved.IDs() {
		r, _ := saved.Get(id)
		pos.Move(id, r.X, r.Y)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.schema, s.graph, s.result, s.pos = text, sch, g, res, pos
	return nil
}

// Direction returns the current layout direction.
func (s *Session) Direction() layout.Direction {
	return s.current().Layout.Direction
}

// State returns a copy of the current state. The positions are a clone the
// caller may keep.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Text:      s.text,
		Schema:    s.schema,
		Graph:     s.graph,
		Layout:    s.result,
		Positions: s.pos.Clone(),
	}
}

func (s *Session) current() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}
