package common

import "errors"

// The error taxonomy is closed: these are every error the matching core
// can return. Propagation is never swallowed internally — every one of
// these surfaces to the caller exactly as returned here.
var (
	// ErrInvalidConfigData is returned by NewBook when the tick axis
	// cannot be constructed from the given min/max/tick_size.
	ErrInvalidConfigData = errors.New("invalid config data")

	// ErrPriceOutOfRange is returned when an order's tick index is >= the
	// book's tick count.
	ErrPriceOutOfRange = errors.New("price out of range")

	// ErrOrderNotFound is returned by cancel/modify for an unknown order id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNonLimitOrderRestAttempt guards against resting a non-Limit order.
	ErrNonLimitOrderRestAttempt = errors.New("attempted to rest a non-limit order")

	// ErrCannotFillCompletely is returned by a Fill-or-Kill precheck
	// failure. No fills are produced when this is returned.
	ErrCannotFillCompletely = errors.New("order cannot be filled completely")

	// ErrInsufficientLiquidity is returned when a Market order exhausts
	// the book before filling. Fills already produced remain recorded.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity to fill order")

	// ErrBitsetIndexOutOfRange is defensive — unreachable under correct
	// callers, since add_order/cancel_order validate price range first.
	ErrBitsetIndexOutOfRange = errors.New("bitset index out of range")

	// ErrFullRingBuffer is returned when a price level's queue is at
	// capacity and cannot accept another resting order.
	ErrFullRingBuffer = errors.New("ring buffer is full")

	// ErrEmptyRingBuffer is returned by pop_front/pop_back on an empty queue.
	ErrEmptyRingBuffer = errors.New("ring buffer is empty")
)
