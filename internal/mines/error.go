package mines

import "errors"

var (
	ErrOutOfBounds          = errors.New("cell out of bounds")
	ErrInvalidConfiguration = errors.New("invalid mine field configuration")
	ErrBadCoord             = errors.New(`coordinates must look like "row,col"`)
)
