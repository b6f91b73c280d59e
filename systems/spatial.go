package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
)

// SpatialGrid provides neighbour lookups using a cell-based grid of
// particle indices. Unlike a world grid it does not wrap: the surface has
// hard edges.
type SpatialGrid struct {
	cellSize float64
	origin   r2.Vec
	cols     int
	rows     int
	cells    [][]int // flat grid of particle index lists
}

// NewSpatialGrid creates a spatial grid covering bounds. Cells start empty
// and only allocate when a particle lands in them.
func NewSpatialGrid(bounds r2.Box, cellSize float64) *SpatialGrid {
	cols := int((bounds.Max.X-bounds.Min.X)/cellSize) + 1
	rows := int((bounds.Max.Y-bounds.Min.Y)/cellSize) + 1

	return &SpatialGrid{
		cellSize: cellSize,
		origin:   bounds.Min,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int, cols*rows),
	}
}

// GridCellSize returns the cell size for indexing n points spread over
// bounds with a query radius of radius. Cells never get smaller than the
// radius, and never so small that the grid has much more than n cells.
func GridCellSize(bounds r2.Box, radius float64, n int) float64 {
	span := max(bounds.Max.X-bounds.Min.X, bounds.Max.Y-bounds.Min.Y)
	perSide := math.Ceil(math.Sqrt(float64(max(n, 1))))
	return max(radius, span/perSide)
}

// Insert adds particle idx at position p.
func (g *SpatialGrid) Insert(idx int, p r2.Vec) {
	col, row := g.cell(p)
	g.cells[row*g.cols+col] = append(g.cells[row*g.cols+col], idx)
}

// QueryRadiusInto appends to dst the indices of particles strictly closer
// than radius to p, in no particular order. Reuse dst across calls to avoid
// allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []int, particles []components.Particle, p r2.Vec, radius float64) []int {
	cellRadius := int(math.Ceil(radius / g.cellSize))
	centerCol, centerRow := g.cell(p)

	for row := max(centerRow-cellRadius, 0); row <= min(centerRow+cellRadius, g.rows-1); row++ {
		for col := max(centerCol-cellRadius, 0); col <= min(centerCol+cellRadius, g.cols-1); col++ {
			for _, idx := range g.cells[row*g.cols+col] {
				if r2.Norm(r2.Sub(particles[idx].Pos, p)) < radius {
					dst = append(dst, idx)
				}
			}
		}
	}
	return dst
}

// cell returns the column and row for a position, clamped to the grid.
func (g *SpatialGrid) cell(p r2.Vec) (int, int) {
	col := int((p.X - g.origin.X) / g.cellSize)
	row := int((p.Y - g.origin.Y) / g.cellSize)
	return min(max(col, 0), g.cols-1), min(max(row, 0), g.rows-1)
}
