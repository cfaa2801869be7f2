// Package layout translates a user layout request into either a grid
// of cells with per-row heights and per-column widths, or a free-form
// positioned layout, per spec.md §3's LayoutPlan and §4.7.
package layout

// Size is the (width, height) of one input image, as read from its
// decoder header.
type Size struct {
	Width, Height int
}

// Position is a positioned input's placement request: top-left
// coordinate plus stacking order.
type Position struct {
	X, Y, Z int
}

// Item is one input to the planner: its size, and (for positioned
// mode) its requested placement. Pos is nil for grid-mode inputs.
type Item struct {
	Size Size
	Pos  *Position
}

// Request mirrors spec.md §6's layout shape. Columns and Rows are
// pointers so "unset" (nil) is distinguishable from "0", even though a
// caller specifying 0 is treated the same as unset.
type Request struct {
	Columns *int
	Rows    *int
	Width   int
	Height  int
}

// GridPlan is a grid layout: grid[r][c] is an index into the original
// input slice, or -1 for an empty cell. ColWidth is per-row because
// spec.md §9 explicitly rejects a single global per-column width.
type GridPlan struct {
	Grid        [][]int
	RowHeight   []int
	ColWidth    [][]int
	TotalWidth  int
	TotalHeight int
	Dropped     int
}

// CellOrigin returns the top-left pixel coordinate of grid cell (r,c).
func (g *GridPlan) CellOrigin(r, c int) (x, y int) {
	for i := 0; i < r; i++ {
		y += g.RowHeight[i]
	}
	for j := 0; j < c; j++ {
		x += g.ColWidth[r][j]
	}
	return x, y
}

// PositionedRect is one positioned input's final placement. Items are
// pre-sorted by (Z ascending, InputIndex ascending) — draw order.
type PositionedRect struct {
	X, Y, Z       int
	Width, Height int
	InputIndex    int
}

// PositionedPlan is a free-form layout: a canvas plus a z-ordered list
// of rectangles, each possibly overlapping or extending past the
// canvas (to be clipped at composite time).
type PositionedPlan struct {
	Items                     []PositionedRect
	CanvasWidth, CanvasHeight int
}

// Plan is the resolved layout: exactly one of Grid or Positioned is set.
type Plan struct {
	Grid       *GridPlan
	Positioned *PositionedPlan
}
