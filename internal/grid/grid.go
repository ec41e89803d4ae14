// Package grid provides the padded per-pixel state grid used by region
// growing.
//
// Each interior cell carries a gray level, a region label and a finalized
// flag. The grid is surrounded by a one-pixel ring of padding cells that are
// permanently finalized and unlabeled, so neighbor walks during region
// growing never need bounds checks: stepping off the image lands on a cell
// that can never be claimed.
package grid

// Node is the per-pixel state record. Label 0 means "no region"; a labeled
// cell belongs to region Label-1. Once Finalized is set the cell's label is
// settled for the rest of region growing (padding cells and cells outside
// the content mask are finalized up front so flooding can never claim them).
type Node struct {
	Gray      uint8
	Label     uint32
	Finalized bool
}

// HasRegion reports whether the node carries a valid region label.
func (n Node) HasRegion() bool { return n.Label != 0 }

// Region returns the region index of a labeled node.
// Only meaningful when HasRegion is true.
func (n Node) Region() uint32 { return n.Label - 1 }

// SetRegion labels the node with a region index.
func (n *Node) SetRegion(idx uint32) { n.Label = idx + 1 }

// Grid is a width x height array of Nodes with a one-pixel padding ring.
// Cells are laid out row-major in a single backing slice; neighbor cells of
// the cell at offset o sit at o-1, o+1, o-Stride() and o+Stride(), including
// on the image border thanks to the padding.
type Grid struct {
	data   []Node
	width  int
	height int
	stride int
}

// New allocates a grid for a width x height image. Interior nodes are
// zero-valued (gray 0, unlabeled, not finalized); the padding ring is
// finalized and unlabeled.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic("grid: non-positive dimensions")
	}
	stride := width + 2
	g := &Grid{
		data:   make([]Node, stride*(height+2)),
		width:  width,
		height: height,
		stride: stride,
	}

	pad := Node{Finalized: true}
	for x := 0; x < stride; x++ {
		g.data[x] = pad
		g.data[(height+1)*stride+x] = pad
	}
	for y := 1; y <= height; y++ {
		g.data[y*stride] = pad
		g.data[y*stride+stride-1] = pad
	}
	return g
}

// Width returns the interior width in pixels.
func (g *Grid) Width() int { return g.width }

// Height returns the interior height in pixels.
func (g *Grid) Height() int { return g.height }

// Stride returns the distance, in nodes, between vertically adjacent cells
// in the backing slice.
func (g *Grid) Stride() int { return g.stride }

// Nodes returns the backing slice, padding included. Use Offset to address
// interior cells.
func (g *Grid) Nodes() []Node { return g.data }

// Offset returns the backing-slice index of the interior cell (x, y).
func (g *Grid) Offset(x, y int) int {
	return (y+1)*g.stride + x + 1
}

// At returns a pointer to the interior cell (x, y).
func (g *Grid) At(x, y int) *Node {
	return &g.data[g.Offset(x, y)]
}
