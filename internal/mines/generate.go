package mines

import "math/rand/v2"

// plantMines samples cells uniformly until NumMines distinct ones hold a mine.
// Samples landing on a mine are thrown away. The caller must have validated p,
// otherwise the loop may never end.
func (p GameParams) plantMines(r *rand.Rand) (grid []Cell, samples int) {
	grid = make([]Cell, p.DimSize*p.DimSize)
	planted := 0
	for planted < p.NumMines {
		samples++
		row, col := r.IntN(p.DimSize), r.IntN(p.DimSize)
		if grid[row*p.DimSize+col].IsMine() {
			continue
		}
		plant(grid, p.DimSize, row, col)
		planted++
	}
	return grid, samples
}

// plant puts a mine at (row, col) and bumps the count of every neighbour that
// is not a mine itself. A cell that later becomes a mine loses its count, so
// the final counts do not depend on placement order.
func plant(grid []Cell, dim, row, col int) {
	grid[row*dim+col] = Mine
	for j := range neighbors(dim, row, col) {
		if !grid[j].IsMine() {
			grid[j]++
		}
	}
}
