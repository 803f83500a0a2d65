package route

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Geometry looks up the current box of a node. A node that has not been
// placed yet reports ok=false.
type Geometry interface {
	Box(id string) (Box, bool)
}

// RouteEdge routes the edge source→target against the current geometry. It
// returns ok=false, and nothing should be drawn, when either box is missing.
// A table referencing itself gets a [SelfLoop].
func RouteEdge(g Geometry, source, target string) (Path, bool) {
	src, ok := g.Box(source)
	if !ok {
		return Path{}, false
	}
	if source == target {
		return SelfLoop(src), true
	}
	dst, ok := g.Box(target)
	if !ok {
		return Path{}, false
	}
	return Route(src, dst), true
}

// Request names an edge to route.
type Request struct {
	ID     string
	Source string
	Target string
}

// Routed is the outcome for one [Request]. OK is false when the edge must not
// be drawn.
type Routed struct {
	ID   string `json:"id"`
	Path Path   `json:"path"`
	OK   bool   `json:"ok"`
}

// RouteAll routes every request, fanning out over GOMAXPROCS workers. Results
// keep the order of reqs. g must be safe for concurrent reads. The only error
// is ctx's.
func RouteAll(ctx context.Context, g Geometry, reqs []Request) ([]Routed, error) {
	out := make([]Routed, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range reqs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, ok := RouteEdge(g, r.Source, r.Target)
			out[i] = Routed{ID: r.ID, Path: p, OK: ok}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
