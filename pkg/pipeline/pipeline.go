// Package pipeline runs schema text through parse → build → layout → render.
//
// The CLI, the HTTP API and the watch loop all go through this package so
// they share defaults, validation and caching.
//
// # Architecture
//
// The pipeline has four stages:
//
//  1. Parse: schema text to a [schema.Schema] (never fails)
//  2. Build: schema to an [erd.Graph] with table sizes
//  3. Layout: graph to positions, cached by graph hash and layout options
//  4. Render: layout (and optionally moved positions) to SVG, PNG, PDF, DOT
//     or JSON, cached per format when rendering the computed positions
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Formats = []string{"svg", "json"}
//	result, err := runner.Execute(ctx, text, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// A [Session] holds the state of one diagram being edited: it keeps the last
// good result when an update fails, and owns the position store that direct
// manipulation writes to.
//
// [schema.Schema]: github.com/matzehuels/schemaflow/pkg/schema.Schema
// [erd.Graph]: github.com/matzehuels/schemaflow/pkg/erd.Graph
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemaflow/pkg/cache"
	"github.com/matzehuels/schemaflow/pkg/config"
	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/render"
	"github.com/matzehuels/schemaflow/pkg/render/diagram"
	"github.com/matzehuels/schemaflow/pkg/schema"
)

// Render engines.
const (
	// EngineBuiltin draws the layered layout computed by this module.
	EngineBuiltin = "builtin"
	// EngineGraphviz hands the graph to Graphviz for its own layout.
	EngineGraphviz = "graphviz"
)

// Cache lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Options contains all configuration for a pipeline run.
type Options struct {
	Layout    layout.Config `json:"layout"`
	NodeWidth float64       `json:"node_width,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Engine   string   `json:"engine,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`
	// CacheTTL overrides the lifetime of cached layouts and artifacts.
	CacheTTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// FromConfig builds options from a loaded configuration.
func FromConfig(cfg config.Config) Options {
	o := Options{
		Layout:    cfg.Layout.Config,
		NodeWidth: cfg.Layout.NodeWidth,
		Formats:   append([]string(nil), cfg.Render.Formats...),
		Style:     cfg.Render.Style,
		Scale:     cfg.Render.Scale,
		NoLabels:  !cfg.Render.Labels,
		CacheTTL:  cfg.Cache.TTL,
	}
	o.SetDefaults()
	return o
}

// SetDefaults fills fields whose zero value is not meaningful. A zero
// Layout becomes [layout.DefaultConfig]; otherwise spacing is left alone
// since zero spacing is valid.
func (o *Options) SetDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.Layout.Direction == "" {
		o.Layout.Direction = layout.LR
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = erd.DefaultNodeWidth
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Style == "" {
		o.Style = diagram.StyleLight
	}
	if o.Scale == 0 {
		o.Scale = 2
	}
	if o.Engine == "" {
		o.Engine = EngineBuiltin
	}
	if o.Logger == nil {
		o.Logger = discard
	}
}

var discard = log.NewWithOptions(io.Discard, log.Options{})

// ValidateForLayout checks the layout options.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	return errors.ValidateSpacing("node_width", o.NodeWidth)
}

// ValidateForRender checks layout and render options.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := diagram.StyleByName(o.Style); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return errors.ValidateFormat(o.Engine, EngineBuiltin, EngineGraphviz)
}

func (o *Options) ttl(def time.Duration) time.Duration {
	if o.CacheTTL > 0 {
		return o.CacheTTL
	}
	return def
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction: string(o.Layout.Direction),
		NodeSep:   o.Layout.NodeSep,
		RankSep:   o.Layout.RankSep,
		EdgeSep:   o.Layout.EdgeSep,
		Margin:    o.Layout.Margin,
		Padding:   o.Layout.Padding,
		NodeWidth: o.NodeWidth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format + "/" + o.Engine,
		Style:  o.Style,
		Scale:  o.Scale,
		Labels: !o.NoLabels,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Schema *schema.Schema
	Graph  erd.Graph
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Tables     int
	Refs       int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
