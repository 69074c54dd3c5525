package routing

import "errors"

var (
	// ErrPathNotFound either frontier exhausted its open set before the two
	// searches met. per-query failure, never fatal to the process.
	ErrPathNotFound = errors.New("no path found between source and target")

	// ErrInvalidCost the cost oracle returned a negative or non-finite weight.
	ErrInvalidCost = errors.New("cost oracle returned an invalid weight")
)
