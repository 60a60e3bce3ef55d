package week

// Flag marks a competition week as opened by a commissioner. A missing flag
// is equivalent to Active=false; flags are never flipped back once active.
type Flag struct {
	Week   int
	Active bool
}
