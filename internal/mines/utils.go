package mines

import "iter"

// neighbors yields the row-major indices of the Moore neighbourhood of
// (row, col), clipped to the field. The cell itself is not included.
func neighbors(dim, row, col int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for r := max(0, row-1); r <= min(dim-1, row+1); r++ {
			for c := max(0, col-1); c <= min(dim-1, col+1); c++ {
				if r == row && c == col {
					continue
				}
				if !yield(r*dim + c) {
					return
				}
			}
		}
	}
}
