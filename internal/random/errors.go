package random

import "errors"

var (
	errQtyMinNegative    = errors.New("random: quantity minimum must be non-negative")
	errQtyMaxLessThanMin = errors.New("random: quantity maximum must be >= minimum")
)
