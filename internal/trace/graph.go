package trace

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/uliss/scantailor/internal/grid"
	"github.com/uliss/scantailor/internal/pqueue"
)

// Edge is an adjacency between two grown regions, stored with the smaller
// region index first so each pair has exactly one representation.
type Edge struct {
	Lesser  uint32
	Greater uint32
}

func makeEdge(a, b uint32) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{Lesser: a, Greater: b}
}

// collectEdges scans the grid for 4-connected pixel pairs that carry
// different region labels and both sit inside the thick mask. Each such pair
// contributes one Edge. The result is sorted by (Lesser, Greater) so callers
// see a deterministic order.
func collectEdges(g *grid.Grid, mask *image.Gray) []Edge {
	w, h := g.Width(), g.Height()
	nodes := g.Nodes()
	stride := g.Stride()

	seen := make(map[Edge]struct{})

	for y := 0; y < h; y++ {
		off := g.Offset(0, y)
		maskRow := mask.Pix[y*mask.Stride:]

		for x := 1; x < w; x++ {
			if maskRow[x] == 0 || maskRow[x-1] == 0 {
				continue
			}
			n1, n2 := nodes[off+x], nodes[off+x-1]
			if n1.Label != n2.Label && n1.HasRegion() && n2.HasRegion() {
				seen[makeEdge(n1.Region(), n2.Region())] = struct{}{}
			}
		}
	}

	for x := 0; x < w; x++ {
		off := g.Offset(x, 1)
		for y := 1; y < h; y++ {
			if mask.Pix[y*mask.Stride+x] != 0 && mask.Pix[(y-1)*mask.Stride+x] != 0 {
				n1, n2 := nodes[off], nodes[off-stride]
				if n1.Label != n2.Label && n1.HasRegion() && n2.HasRegion() {
					seen[makeEdge(n1.Region(), n2.Region())] = struct{}{}
				}
			}
			off += stride
		}
	}

	edges := make([]Edge, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Lesser != edges[j].Lesser {
			return edges[i].Lesser < edges[j].Lesser
		}
		return edges[i].Greater < edges[j].Greater
	})
	return edges
}

// noEdgeNode marks an unset EdgeNode reference (Prev, Origin).
const noEdgeNode = -1

// edgeConnection links one EdgeNode to another, with the collinearity cost
// of traversing the shared region between them.
type edgeConnection struct {
	node int
	cost float64
}

// EdgeNode is an Edge promoted to a graph node. Two EdgeNodes are connected
// when their edges share a region and the two centroid-to-centroid segments
// through that region are close to collinear. PathCost, Prev and Origin are
// the search state filled in by solvePaths.
type EdgeNode struct {
	Edge        Edge
	connections []edgeConnection

	PathCost float64
	Prev     int
	Origin   int // index of the leftmost region the best path starts from

	heapIdx int
}

func newEdgeNode(e Edge) EdgeNode {
	return EdgeNode{
		Edge:     e,
		PathCost: math.Inf(1),
		Prev:     noEdgeNode,
		Origin:   noEdgeNode,
		heapIdx:  pqueue.InvalidIndex,
	}
}

// buildEdgeGraph promotes every region adjacency into an EdgeNode and
// connects pairs of edges meeting at a shared region. For edges to regions
// r1 and r2, both seen from the shared region, the segments are collinear
// when the vectors point in roughly opposite directions; such pairs are
// connected with a cost that grows as the angle between the segments bends
// away from a straight line. Pairs bending more than toleranceDeg off
// straight are not connected at all.
//
// As a side effect, Region.Neighbors is populated in both directions.
func buildEdgeGraph(edges []Edge, regions []Region, toleranceDeg float64) []EdgeNode {
	nodes := make([]EdgeNode, 0, len(edges))
	index := make(map[Edge]int, len(edges))

	for _, e := range edges {
		index[e] = len(nodes)
		nodes = append(nodes, newEdgeNode(e))

		regions[e.Lesser].Neighbors = append(regions[e.Lesser].Neighbors, e.Greater)
		regions[e.Greater].Neighbors = append(regions[e.Greater].Neighbors, e.Lesser)
	}

	cosThreshold := math.Cos(toleranceDeg * math.Pi / 180)
	cosSqThreshold := cosThreshold * cosThreshold

	for regionIdx := range regions {
		region := &regions[regionIdx]
		centroid := pointToVec(region.Centroid)

		for i := 0; i < len(region.Neighbors); i++ {
			r1 := region.Neighbors[i]
			node1Idx := index[makeEdge(uint32(regionIdx), r1)]
			vec1 := r2.Sub(pointToVec(regions[r1].Centroid), centroid)

			for j := i + 1; j < len(region.Neighbors); j++ {
				r2idx := region.Neighbors[j]
				node2Idx := index[makeEdge(uint32(regionIdx), r2idx)]
				vec2 := r2.Sub(pointToVec(regions[r2idx].Centroid), centroid)

				sqlenMult := r2.Norm2(vec1) * r2.Norm2(vec2)
				if sqlenMult < 1e-12 {
					continue
				}

				// Positive when the two segments continue each other
				// through the shared region, negative when they fold back.
				dot := r2.Dot(vec1, vec2)
				cosSq := math.Abs(dot) * -dot / sqlenMult
				cost := math.Max(1-cosSq, 0)

				if cosSq > cosSqThreshold {
					nodes[node1Idx].connections = append(
						nodes[node1Idx].connections, edgeConnection{node: node2Idx, cost: cost})
					nodes[node2Idx].connections = append(
						nodes[node2Idx].connections, edgeConnection{node: node1Idx, cost: cost})
				}
			}
		}
	}

	return nodes
}

// solvePaths runs a bottleneck variant of Dijkstra over the edge graph.
// Every EdgeNode touching a leftmost region starts with cost zero; the cost
// of a path is the maximum connection cost along it, with a small fraction
// of each traversed cost added on so that among paths with an equal
// bottleneck the straighter one wins. On return every reachable node carries
// its best PathCost, the Prev link to walk the path back, and the Origin
// region the path started from.
func solvePaths(nodes []EdgeNode, regions []Region) {
	queue := pqueue.New(func(a, b int) bool {
		return nodes[a].PathCost < nodes[b].PathCost
	}, func(idx int, heapIdx int) {
		nodes[idx].heapIdx = heapIdx
	})

	for i := range nodes {
		node := &nodes[i]
		if regions[node.Edge.Lesser].Leftmost {
			node.PathCost = 0
			node.Origin = int(node.Edge.Lesser)
			queue.Push(i)
		} else if regions[node.Edge.Greater].Leftmost {
			node.PathCost = 0
			node.Origin = int(node.Edge.Greater)
			queue.Push(i)
		}
	}

	for !queue.Empty() {
		idx := queue.Pop()
		node := &nodes[idx]
		node.heapIdx = pqueue.InvalidIndex

		for _, conn := range node.connections {
			next := &nodes[conn.node]
			newCost := math.Max(node.PathCost, conn.cost) + 0.001*conn.cost
			if newCost < next.PathCost {
				next.PathCost = newCost
				next.Prev = idx
				next.Origin = node.Origin
				if next.heapIdx == pqueue.InvalidIndex {
					queue.Push(conn.node)
				} else {
					queue.Reposition(next.heapIdx)
				}
			}
		}
	}
}

func pointToVec(p image.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}
