package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemaflow/pkg/cache"
	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching logic lives in one place.
//
// The Runner holds no pipeline results, only the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	s, err := Parse(text)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, 0, 0, time.Since(parseStart), err)
		return nil, err
	}
	result.Schema = s
	result.Graph = Build(s, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Tables = len(result.Graph.Nodes)
	result.Stats.Refs = len(result.Graph.Edges)
	observability.Pipeline().OnParseComplete(ctx, result.Stats.Tables, result.Stats.Refs, result.Stats.ParseTime, nil)

	r.Logger.Info("parsed schema",
		"tables", result.Stats.Tables,
		"refs", result.Stats.Refs,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, result.Graph, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"ranks", res.Ranks,
		"crossings", res.Crossings,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, nil, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo lays out g with caching and reports whether the
// cache served it.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g erd.Graph, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)

	key := r.layoutKey(g, opts)
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, "layout")

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(g.Nodes))
	res := ComputeLayout(g, opts)
	observability.Pipeline().OnLayoutComplete(ctx, len(g.Nodes), time.Since(start), nil)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.ttl(TTLLayout)); err != nil {
			opts.Logger.Warn("layout cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, false, nil
}

// ComputeLayout is ComputeLayoutWithCacheInfo without the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g erd.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// Layout parses text and lays it out.
func (r *Runner) Layout(ctx context.Context, text string, opts Options) (layout.Result, error) {
	s, err := Parse(text)
	if err != nil {
		return layout.Result{}, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, err
	}
	return r.ComputeLayout(ctx, Build(s, opts), opts)
}

// RenderWithCacheInfo renders every requested format. Output for the
// computed positions (pos == nil) is cached; output for moved positions is
// not, since those change with every drag.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, pos *layout.Positions, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheable := pos == nil
	var layoutHash string
	if cacheable {
		data, err := json.Marshal(res)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
		}
		layoutHash = cache.Hash(data)
	}

	hooks := observability.Cache()
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, allHit, err := r.renderAll(ctx, res, pos, layoutHash, cacheable, hooks, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

func (r *Runner) renderAll(ctx context.Context, res layout.Result, pos *layout.Positions, layoutHash string, cacheable bool, hooks observability.CacheHooks, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := cacheable
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		var key string
		if cacheable {
			key = r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
					hooks.OnCacheHit(ctx, "artifact")
					artifacts[format] = data
					continue
				}
			}
			hooks.OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := renderFormat(ctx, res, pos, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		if cacheable {
			if err := r.Cache.Set(ctx, key, data, opts.ttl(TTLArtifact)); err != nil {
				opts.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			} else {
				hooks.OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}
	return artifacts, allHit, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, pos *layout.Positions, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, pos, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) layoutKey(g erd.Graph, opts Options) string {
	data, _ := json.Marshal(g)
	return r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())
}

// applyLogger hands the runner's logger to stages when opts carries only the
// discard default.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil || opts.Logger == discard {
		opts.Logger = r.Logger
	}
}
