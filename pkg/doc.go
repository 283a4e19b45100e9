// Package pkg provides the libraries behind texatlas, a texture atlas packer.
//
// # Overview
//
// texatlas takes a set of independently sized images and places them into a
// single square, power-of-two texture. Each sprite gets a pixel rectangle and
// a normalized UV rectangle so a renderer can sample it from the shared atlas.
// The pkg directory is organized into four areas:
//
//  1. Core: [atlas] (guillotine packing, layouts, candidate sizes)
//  2. Pixels: [source] (decode sprites), [compose] (blit into the atlas)
//  3. Output: [sink] (PNG image, JSON manifest), [render] (debug views)
//  4. Infrastructure: [pipeline], [cache], [store], [server], [config]
//
// # Architecture
//
// The typical data flow:
//
//	sprite files
//	     ↓
//	[source] package (decode, name)
//	     ↓
//	[atlas] package (sizes → layout)
//	     ↓
//	[compose] package (layout + pixels → atlas image)
//	     ↓
//	[sink] package (atlas.png + atlas.json)
//
// [pipeline.Runner] drives these stages with caching for both the CLI and
// the HTTP server.
//
// # Quick Start
//
// Pack sizes without pixels:
//
//	layout, err := atlas.Pack([]atlas.Size{{Width: 64, Height: 64}, {Width: 32, Height: 32}})
//	if err != nil {
//	    return err
//	}
//	for _, e := range layout.Entries {
//	    fmt.Println(e.X, e.Y, e.U, e.V)
//	}
//
// Pack a directory of sprites into an atlas image and manifest:
//
//	sprites, _ := source.LoadDir(ctx, "sprites")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, sprites, pipeline.Options{Border: 1})
//	os.WriteFile("atlas.png", result.Artifacts["png"], 0644)
//	os.WriteFile("atlas.json", result.Artifacts["json"], 0644)
//
// # Main Packages
//
// [atlas] - The packer. The smallest candidate square whose area fits the
// bordered rectangles is split as a binary space partition and filled
// largest-first.
//
// [errors] - Structured error codes shared by the CLI and the server, with
// mapping from packer errors and to HTTP status codes.
//
// [config] - TOML configuration (texatlas.toml) for packer, output, cache,
// and server settings.
//
// [cache] - Layout and artifact cache with file, Redis, and null backends.
//
// [store] - Layout records for the server, in memory or in MongoDB.
//
// [server] - HTTP API for packing sizes and retrieving stored layouts.
//
// [observability] - Hooks for pack, cache, and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/atlas/...         # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// MongoDB store tests run when TEXATLAS_TEST_MONGO_URI is set, and the live
// Redis cache test when TEXATLAS_TEST_REDIS_URL is set.
//
// [atlas]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/atlas
// [source]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/source
// [compose]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/compose
// [sink]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/sink
// [render]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/observability
package pkg
