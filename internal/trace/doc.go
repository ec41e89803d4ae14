// Package trace locates curved text-line baselines in a scanned page image.
//
// The result is a set of smooth polylines, one per traced text line, handed
// to a downstream dewarping stage that fits a distortion model from two
// horizontal reference curves plus the page's vertical bounds.
//
// # Pipeline
//
// A trace is a single synchronous batch computation over exclusively-owned
// state:
//
//  1. Preprocess: downscale to ~200 DPI, binarize (Sauvola), stretch
//     contrast, blur anisotropically, and derive the "thick mask" of pixels
//     plausibly belonging to dark strokes.
//  2. Seed: find gray-level peaks in the blurred image, keep those on the
//     thick mask, dilate to merge near-duplicates, and turn each connected
//     seed component into a Region with an integer centroid.
//  3. Grow: claim thick-mask pixels for regions with a gray-level
//     priority-flood, then give every remaining pixel a nearest-region label
//     with a linear-time squared-distance transform whose vertical distances
//     are scaled 3x, biasing ownership along the text direction.
//  4. Graph: collect region adjacencies from 4-connected label transitions
//     inside the mask, then build a dual graph whose nodes are those
//     adjacency edges and whose links mean "these two edges continue each
//     other almost straight through their shared region" (within 15°).
//  5. Solve: run a bottleneck shortest-path search over the dual graph from
//     every edge touching a leftmost region; a path's cost is its single
//     worst bend, with a tiny additive term to break ties toward fewer
//     bends.
//  6. Extract: greedily pick at most one best path per leftmost region,
//     convert each edge sequence into a polyline of region centroids,
//     extend both ends toward the vertical bounds, and drop polylines that
//     lie outside the bounds corridor or fail the curvature check.
//
// All phases degrade gracefully: a page with no detectable peaks, or with no
// left-to-right connectivity, produces an empty polyline set rather than an
// error. The context passed to Trace is checked between phases; cancellation
// aborts the trace without publishing partial results.
//
// Coordinates handed in and out of Trace are in the original image's pixel
// space; the downscaled working space is internal.
package trace
