// Package pkg holds the layoutwriter libraries.
//
// # Overview
//
// layoutwriter takes a technology-independent description of an IC layout
// (instances, rectangles, path segments, vias, pins, polygons, blockages
// and boundaries in user units with symbolic layer names) and emits it into
// a design backend in database units with numeric layer and purpose ids.
//
//  1. [geom] - Orientation codes, unit conversion, array expansion, via and
//     path encodings
//  2. [layout] - The in-memory layout model and its constructors
//  3. [tech] - Technology tables (TOML and KLayout .lyp)
//  4. [io] - Layout files (JSON and YAML)
//  5. [emit] - The backend contract, plus the [emit/record] and [emit/mongo]
//     backends
//  6. [pipeline] - Emission with diagnostics and result caching
//  7. [cache] - File, Redis and null caches
//  8. [render/hier] - Instance hierarchy diagrams
//
// # Data Flow
//
//	layout file ──[io]──▶ layout.Layout
//	                          │
//	tech file ──[tech]──▶ pipeline.Runner ──▶ emit.Backend (record, mongo)
//	                          │
//	                       [cache]
//
// # Quick Start
//
//	l := layout.New()
//	_ = l.AddRect("M1", "drawing", geom.Box{XR: 1, YT: 0.5}, geom.Array{NX: 4, SPX: 2})
//
//	t, _ := tech.Load("demo.toml")
//	backend := record.New()
//	res, err := pipeline.NewRunner(nil, nil, logger).
//	    Emit(ctx, backend, t, pipeline.Options{Cell: "top"}, l)
//
// [geom]: github.com/matzehuels/layoutwriter/pkg/geom
// [layout]: github.com/matzehuels/layoutwriter/pkg/layout
// [tech]: github.com/matzehuels/layoutwriter/pkg/tech
// [io]: github.com/matzehuels/layoutwriter/pkg/io
// [emit]: github.com/matzehuels/layoutwriter/pkg/emit
// [emit/record]: github.com/matzehuels/layoutwriter/pkg/emit/record
// [emit/mongo]: github.com/matzehuels/layoutwriter/pkg/emit/mongo
// [pipeline]: github.com/matzehuels/layoutwriter/pkg/pipeline
// [cache]: github.com/matzehuels/layoutwriter/pkg/cache
// [render/hier]: github.com/matzehuels/layoutwriter/pkg/render/hier
package pkg
