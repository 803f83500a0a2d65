// Package pkg provides the core libraries for schemaflow entity-relationship
// diagrams.
//
// # Overview
//
// Schemaflow reads DBML-style schema text and draws it as a diagram: one card
// per table, one routed edge per reference, placed by a layered layout. The
// pkg directory is organized into four areas:
//
//  1. Domain: [schema], [erd], [dag], [layout], [route]
//  2. Rendering: [render], [render/diagram], [render/nodelink]
//  3. Orchestration: [pipeline]
//  4. Infrastructure: [cache], [session], [config], [errors], [observability], [api]
//
// # Architecture
//
// The data flow through schemaflow:
//
//	Schema text
//	     ↓
//	[schema] package (tables, columns, refs)
//	     ↓
//	[erd] package (sized nodes, cardinality-labelled edges)
//	     ↓
//	[layout] package (layering over [dag], ordering, coordinates)
//	     ↓
//	[route] package (orthogonal edge paths against current positions)
//	     ↓
//	SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
//	s := schema.Parse(text)
//	g := erd.Build(s)
//	res := layout.Compute(g, layout.DefaultConfig())
//	svg := diagram.RenderSVG(res)
//
// Most callers go through [pipeline.Runner], which adds validation and
// caching, or [pipeline.Session], which keeps moved tables between edits.
//
// [schema]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/schema
// [erd]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/erd
// [dag]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/dag
// [layout]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/layout
// [route]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/route
// [render]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/render
// [render/diagram]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/render/diagram
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/pipeline#Runner
// [pipeline.Session]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/pipeline#Session
// [cache]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/schemaflow/pkg/api
package pkg
