// Package compose is a node-graph raster compositor for Go.
//
// # Overview
//
// compose evaluates a directed acyclic graph of image-generating and
// image-combining nodes (shape generators, alpha blenders, color sources)
// into raster textures. The graph model, scheduling, and texture lifetime
// management live here; kernels execute on the GPU when a backend is
// registered and on the CPU otherwise.
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/gogpu/compose"
//	    "github.com/gogpu/compose/engine"
//	    "github.com/gogpu/compose/graph"
//	)
//
//	g := graph.New()
//	shape := g.AddNode(graph.KindShape, graph.Params{
//	    "shape": graph.Shape(compose.Circle(50, compose.Red)),
//	})
//	out := g.AddNode(graph.KindOutput, nil)
//	g.Connect(shape, 0, out, 0)
//
//	ev, _ := engine.New(engine.Config{Width: 200, Height: 200})
//	tex, err := ev.Evaluate(context.Background(), g, out)
//
// # GPU acceleration
//
// GPU kernel dispatch is opt-in via blank import:
//
//	import _ "github.com/gogpu/compose/gpu" // enable wgpu compute kernels
//
// Without it, all kernels run on the CPU with identical results.
//
// # Architecture
//
// The module is organized into:
//   - Root: colors, textures, texture pool, shape descriptors, accelerator registry
//   - graph: node/edge model, mutation API, dirty propagation, ordering
//   - kernel: per-node-kind compute kernels (CPU reference implementations)
//   - engine: dependency-ordered evaluation and caching
//   - chrome: editor-side node box and port rendering
//   - internal/gpu: wgpu/hal compute backend with embedded WGSL kernels
package compose
