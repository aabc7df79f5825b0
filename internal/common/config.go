package common

// BookConfig describes the fixed tick axis a Book is constructed over and
// the fixed capacity of each price level's resting-order queue.
//
// TickCount, derived as (MaxPrice-MinPrice)/TickSize, becomes the book's
// price axis size P. LevelCapacity (O in the design doc) must be a power
// of two — it bounds how many orders may rest at a single tick before
// ErrFullRingBuffer is returned.
type BookConfig struct {
	MinPrice      uint32
	MaxPrice      uint32
	TickSize      uint32
	LevelCapacity uint32
}

// TickCount returns P, the number of valid tick indices in [0, P), or
// (0, false) if MinPrice/MaxPrice/TickSize do not describe a positive
// multiple of TickSize.
func (c BookConfig) TickCount() (uint32, bool) {
	if c.TickSize == 0 || c.MaxPrice <= c.MinPrice {
		return 0, false
	}
	span := c.MaxPrice - c.MinPrice
	if span%c.TickSize != 0 {
		return 0, false
	}
	return span / c.TickSize, true
}

// LevelCapacityValid reports whether LevelCapacity is a non-zero power of two.
func (c BookConfig) LevelCapacityValid() bool {
	n := c.LevelCapacity
	return n != 0 && (n&(n-1)) == 0
}
