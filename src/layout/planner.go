package layout

import "sort"

// Plan resolves items into a Plan. If any item carries a Position, all
// of them must (MixedLayoutModes otherwise); positioned items are
// planned free-form, everything else goes through the grid strategies
// in priority order (fixed columns, fixed rows, pixel budget, default),
// per spec.md §4.7.
func Plan(items []Item, req Request) (*Plan, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInputs
	}

	positioned, grid := 0, 0
	for _, it := range items {
		if it.Pos != nil {
			positioned++
		} else {
			grid++
		}
	}
	if positioned > 0 && grid > 0 {
		return nil, ErrMixedLayoutModes
	}
	if positioned > 0 {
		pp := planPositioned(items, req)
		return &Plan{Positioned: pp}, nil
	}

	gp := planGrid(items, req)
	return &Plan{Grid: gp}, nil
}

func planGrid(items []Item, req Request) *GridPlan {
	sizes := make([]Size, len(items))
	for i, it := range items {
		sizes[i] = it.Size
	}

	switch {
	case req.Columns != nil && *req.Columns > 0:
		return planFixedColumns(sizes, *req.Columns)
	case req.Rows != nil && *req.Rows > 0:
		return planFixedRows(sizes, *req.Rows)
	case req.Width > 0 || req.Height > 0:
		columns := 0
		if req.Columns != nil {
			columns = *req.Columns
		}
		return planPixelBudget(sizes, req.Width, req.Height, columns)
	default:
		return planDefault(sizes)
	}
}

// planFixedColumns lays out images row-major into a fixed number of
// columns, per spec.md §4.7 strategy 1.
func planFixedColumns(sizes []Size, columns int) *GridPlan {
	n := len(sizes)
	rows := (n + columns - 1) / columns
	grid := newEmptyGrid(rows, columns)
	for i := 0; i < n; i++ {
		r, c := i/columns, i%columns
		grid[r][c] = i
	}
	return finalizeGrid(grid, sizes, 0)
}

// planFixedRows lays out images column-major into a fixed number of
// rows: image i goes to column i/rows, row i%rows, per spec.md §4.7
// strategy 2.
func planFixedRows(sizes []Size, rows int) *GridPlan {
	n := len(sizes)
	columns := (n + rows - 1) / rows
	grid := newEmptyGrid(rows, columns)
	for i := 0; i < n; i++ {
		c := i / rows
		r := i % rows
		grid[r][c] = i
	}
	return finalizeGrid(grid, sizes, 0)
}

// planPixelBudget greedily packs images left-to-right, wrapping to a
// new row when the next image would exceed maxWidth (or maxColumns
// images are already on the row), and stops once adding a row would
// exceed maxHeight. Remaining images are dropped, per spec.md §4.7
// strategy 3 (documented as silently truncating — see DESIGN.md's
// Open Question disposition).
func planPixelBudget(sizes []Size, maxWidth, maxHeight, maxColumns int) *GridPlan {
	var grid [][]int
	n := len(sizes)
	i := 0
	totalHeight := 0

	for i < n {
		var row []int
		rowWidth := 0
		rowHeight := 0
		for i < n {
			w := sizes[i].Width
			if len(row) > 0 && maxWidth > 0 && rowWidth+w > maxWidth {
				break
			}
			if maxColumns > 0 && len(row) >= maxColumns {
				break
			}
			row = append(row, i)
			rowWidth += w
			if sizes[i].Height > rowHeight {
				rowHeight = sizes[i].Height
			}
			i++
		}
		if len(row) == 0 {
			// A single image wider than maxWidth still gets its own row.
			row = append(row, i)
			rowHeight = sizes[i].Height
			i++
		}
		if maxHeight > 0 && totalHeight+rowHeight > maxHeight {
			i -= len(row)
			break
		}
		grid = append(grid, row)
		totalHeight += rowHeight
	}

	gp := finalizeGrid(grid, sizes, n-i)
	return gp
}

// planDefault puts every image into a single row, per spec.md §4.7
// strategy 4.
func planDefault(sizes []Size) *GridPlan {
	n := len(sizes)
	row := make([]int, n)
	for i := range row {
		row[i] = i
	}
	return finalizeGrid([][]int{row}, sizes, 0)
}

func newEmptyGrid(rows, columns int) [][]int {
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, columns)
		for c := range grid[r] {
			grid[r][c] = -1
		}
	}
	return grid
}

// finalizeGrid computes per-row heights and per-row-per-column widths
// from a grid of input indices, and the resulting total dimensions,
// per spec.md §8's invariant (totalWidth maximized over row sums,
// totalHeight summed over row heights).
func finalizeGrid(grid [][]int, sizes []Size, dropped int) *GridPlan {
	rows := len(grid)
	colWidth := make([][]int, rows)
	rowHeight := make([]int, rows)
	totalWidth := 0

	for r := 0; r < rows; r++ {
		cols := len(grid[r])
		colWidth[r] = make([]int, cols)
		rowWidth := 0
		rh := 0
		for c := 0; c < cols; c++ {
			idx := grid[r][c]
			if idx < 0 {
				continue
			}
			colWidth[r][c] = sizes[idx].Width
			rowWidth += sizes[idx].Width
			if sizes[idx].Height > rh {
				rh = sizes[idx].Height
			}
		}
		rowHeight[r] = rh
		if rowWidth > totalWidth {
			totalWidth = rowWidth
		}
	}

	totalHeight := 0
	for _, h := range rowHeight {
		totalHeight += h
	}

	return &GridPlan{
		Grid:        grid,
		RowHeight:   rowHeight,
		ColWidth:    colWidth,
		TotalWidth:  totalWidth,
		TotalHeight: totalHeight,
		Dropped:     dropped,
	}
}

// planPositioned resolves a free-form layout: canvas dimensions
// default to the bounding box of all rectangles when the request
// leaves them unset, and draw order is z ascending then input index,
// per spec.md §4.7's positioned mode.
func planPositioned(items []Item, req Request) *PositionedPlan {
	rects := make([]PositionedRect, len(items))
	maxX, maxY := 0, 0
	for i, it := range items {
		rects[i] = PositionedRect{
			X: it.Pos.X, Y: it.Pos.Y, Z: it.Pos.Z,
			Width: it.Size.Width, Height: it.Size.Height,
			InputIndex: i,
		}
		if right := it.Pos.X + it.Size.Width; right > maxX {
			maxX = right
		}
		if bottom := it.Pos.Y + it.Size.Height; bottom > maxY {
			maxY = bottom
		}
	}

	canvasWidth := req.Width
	if canvasWidth <= 0 {
		canvasWidth = maxX
	}
	canvasHeight := req.Height
	if canvasHeight <= 0 {
		canvasHeight = maxY
	}

	sort.SliceStable(rects, func(i, j int) bool {
		if rects[i].Z != rects[j].Z {
			return rects[i].Z < rects[j].Z
		}
		return rects[i].InputIndex < rects[j].InputIndex
	})

	return &PositionedPlan{Items: rects, CanvasWidth: canvasWidth, CanvasHeight: canvasHeight}
}
