package datum

// defaultArraySizeLimit matches the default array construction bound.
const defaultArraySizeLimit = 100000

// Limits bounds datum construction for one evaluation. It is passed
// explicitly wherever a merge or builder can grow an array, so merge
// operations stay referentially transparent.
type Limits struct {
	arraySize int
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{arraySize: defaultArraySizeLimit}
}

// NewLimits returns limits with the given array size bound. Non-positive
// values fall back to the default.
func NewLimits(arraySize int) Limits {
	if arraySize <= 0 {
		arraySize = defaultArraySizeLimit
	}
	return Limits{arraySize: arraySize}
}

// ArraySizeLimit is the maximum number of elements an array may hold.
func (l Limits) ArraySizeLimit() int {
	if l.arraySize <= 0 {
		return defaultArraySizeLimit
	}
	return l.arraySize
}
