// Package sink encodes atlas artifacts.
//
// # Formats
//
//   - PNG: the composed atlas image ([RenderPNG])
//   - JSON: the placement manifest ([RenderJSON])
//
// The JSON manifest is what a renderer loads at runtime to map sprite names
// to UV rectangles:
//
//	{
//	  "dimension": 128,
//	  "border": 1,
//	  "utilization": 0.390625,
//	  "image": "atlas.png",
//	  "entries": [
//	    {"id": 0, "name": "hero", "x": 1, "y": 1, "width": 64, "height": 64,
//	     "u": 0.0078125, "v": 0.0078125, "uw": 0.5, "vh": 0.5}
//	  ]
//	}
//
// [ReadJSON] parses a manifest back into an [atlas.Layout] plus names, which
// the inspector and round-trip tests rely on.
package sink
