package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/pipeline"
	"github.com/matzehuels/schemaflow/pkg/render"
)

// layoutFlags are the layout flags shared by every command that lays out a
// schema. Only flags given on the command line override the config file.
type layoutFlags struct {
	direction string
	nodeSep   float64
	rankSep   float64
	edgeSep   float64
	margin    float64
	padding   float64
	nodeWidth float64
	noCache   bool
	refresh   bool
}

func (f *layoutFlags) bind(cmd *cobra.Command) {
	d := layout.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVarP(&f.direction, "direction", "d", string(d.Direction), "layout direction: LR or TB")
	fs.Float64Var(&f.nodeSep, "node-sep", d.NodeSep, "gap between tables in a rank")
	fs.Float64Var(&f.rankSep, "rank-sep", d.RankSep, "gap between ranks")
	fs.Float64Var(&f.edgeSep, "edge-sep", d.EdgeSep, "gap around long edges")
	fs.Float64Var(&f.margin, "margin", d.Margin, "margin around the diagram")
	fs.Float64Var(&f.padding, "padding", d.Padding, "padding added to each table")
	fs.Float64Var(&f.nodeWidth, "node-width", 0, "table width (default from config)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

func (f *layoutFlags) apply(cmd *cobra.Command, o *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("direction") {
		o.Layout.Direction = layout.Direction(strings.ToUpper(f.direction))
	}
	if fs.Changed("node-sep") {
		o.Layout.NodeSep = f.nodeSep
	}
	if fs.Changed("rank-sep") {
		o.Layout.RankSep = f.rankSep
	}
	if fs.Changed("edge-sep") {
		o.Layout.EdgeSep = f.edgeSep
	}
	if fs.Changed("margin") {
		o.Layout.Margin = f.margin
	}
	if fs.Changed("padding") {
		o.Layout.Padding = f.padding
	}
	if fs.Changed("node-width") {
		o.NodeWidth = f.nodeWidth
	}
	o.Refresh = f.refresh
}

// renderFlags extend layoutFlags with output settings.
type renderFlags struct {
	layoutFlags
	formats  string
	output   string
	style    string
	engine   string
	scale    float64
	noLabels bool
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	f.layoutFlags.bind(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.StringVar(&f.style, "style", "", "color theme: light (default), dark")
	fs.StringVar(&f.engine, "engine", pipeline.EngineBuiltin, "layout engine for drawings: builtin, graphviz")
	fs.Float64Var(&f.scale, "scale", 0, "PNG resolution multiplier (default from config)")
	fs.BoolVar(&f.noLabels, "no-labels", false, "hide cardinality labels")
}

func (f *renderFlags) apply(cmd *cobra.Command, o *pipeline.Options) {
	f.layoutFlags.apply(cmd, o)
	fs := cmd.Flags()
	if fs.Changed("format") {
		o.Formats = parseFormats(f.formats)
	}
	if fs.Changed("style") {
		o.Style = f.style
	}
	if fs.Changed("scale") {
		o.Scale = f.scale
	}
	if fs.Changed("no-labels") {
		o.NoLabels = f.noLabels
	}
	o.Engine = f.engine
}

// options builds pipeline options from the loaded config overlaid with
// flags.
func (c *CLI) options(cmd *cobra.Command, apply func(*cobra.Command, *pipeline.Options)) pipeline.Options {
	o := pipeline.FromConfig(c.config)
	apply(cmd, &o)
	o.Logger = c.Logger
	return o
}
