package trace

import (
	"sort"

	"github.com/uliss/scantailor/internal/geom"
)

// extractPaths picks, for every rightmost region, the cheapest solved
// EdgeNode touching it, then keeps only the best of those per origin region,
// so each leftmost region contributes at most one text line. Every surviving
// node is walked back through Prev links until the path reaches an edge
// touching its origin. Paths are returned running left to right, ordered by
// origin region index.
func extractPaths(nodes []EdgeNode, regions []Region) [][]int {
	// Rightmost region -> index of the cheapest EdgeNode touching it.
	bestIncoming := make(map[uint32]int)

	for i := range nodes {
		node := &nodes[i]

		var rightmost uint32
		if regions[node.Edge.Lesser].Rightmost {
			rightmost = node.Edge.Lesser
		} else if regions[node.Edge.Greater].Rightmost {
			rightmost = node.Edge.Greater
		} else {
			continue
		}

		if node.Origin == noEdgeNode {
			// No path reached this node.
			continue
		}

		if best, ok := bestIncoming[rightmost]; !ok || node.PathCost < nodes[best].PathCost {
			bestIncoming[rightmost] = i
		}
	}

	rightmostKeys := make([]uint32, 0, len(bestIncoming))
	for k := range bestIncoming {
		rightmostKeys = append(rightmostKeys, k)
	}
	sort.Slice(rightmostKeys, func(i, j int) bool { return rightmostKeys[i] < rightmostKeys[j] })

	// Origin (leftmost) region -> index of the cheapest rightmost EdgeNode.
	bestOutgoing := make(map[int]int)
	for _, k := range rightmostKeys {
		nodeIdx := bestIncoming[k]
		origin := nodes[nodeIdx].Origin
		if best, ok := bestOutgoing[origin]; !ok || nodes[nodeIdx].PathCost < nodes[best].PathCost {
			bestOutgoing[origin] = nodeIdx
		}
	}

	origins := make([]int, 0, len(bestOutgoing))
	for o := range bestOutgoing {
		origins = append(origins, o)
	}
	sort.Ints(origins)

	paths := make([][]int, 0, len(origins))
	for _, origin := range origins {
		var path []int

		idx := bestOutgoing[origin]
		for {
			path = append(path, idx)
			edge := nodes[idx].Edge
			if int(edge.Lesser) == origin || int(edge.Greater) == origin {
				break
			}
			idx = nodes[idx].Prev
		}

		// Prev links run right to left; text lines read left to right.
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		paths = append(paths, path)
	}
	return paths
}

// pathsToPolylines converts each edge path into the sequence of region
// centroids it passes through. Consecutive edges share exactly one region;
// the shared regions form the interior of the polyline, and the unshared
// endpoints of the first and last edges cap it on both sides.
func pathsToPolylines(paths [][]int, nodes []EdgeNode, regions []Region) []geom.Polyline {
	polylines := make([]geom.Polyline, 0, len(paths))

	for _, path := range paths {
		if len(path) == 0 {
			continue
		}

		if len(path) == 1 {
			edge := nodes[path[0]].Edge
			polylines = append(polylines, geom.Polyline{
				pointToVec(regions[edge.Lesser].Centroid),
				pointToVec(regions[edge.Greater].Centroid),
			})
			continue
		}

		regionSeq := make([]uint32, 1, len(path)+1)
		for i := 0; i+1 < len(path); i++ {
			shared, ok := findConnectingRegion(nodes[path[i]].Edge, nodes[path[i+1]].Edge)
			if !ok {
				break
			}
			regionSeq = append(regionSeq, shared)
		}

		firstEdge := nodes[path[0]].Edge
		if firstEdge.Lesser == regionSeq[1] {
			regionSeq[0] = firstEdge.Greater
		} else {
			regionSeq[0] = firstEdge.Lesser
		}

		lastEdge := nodes[path[len(path)-1]].Edge
		if lastEdge.Lesser == regionSeq[len(regionSeq)-1] {
			regionSeq = append(regionSeq, lastEdge.Greater)
		} else {
			regionSeq = append(regionSeq, lastEdge.Lesser)
		}

		polyline := make(geom.Polyline, len(regionSeq))
		for i, idx := range regionSeq {
			polyline[i] = pointToVec(regions[idx].Centroid)
		}
		polylines = append(polylines, polyline)
	}
	return polylines
}

// findConnectingRegion returns the region shared by two edges.
func findConnectingRegion(e1, e2 Edge) (uint32, bool) {
	for _, a := range [2]uint32{e1.Lesser, e1.Greater} {
		for _, b := range [2]uint32{e2.Lesser, e2.Greater} {
			if a == b {
				return a, true
			}
		}
	}
	return 0, false
}
