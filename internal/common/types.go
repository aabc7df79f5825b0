// Package common holds the domain types shared across the matching core
// and its surrounding layers: order/fill shapes, the closed enums that
// describe them, and the book's configuration and error taxonomy.
package common

import "fmt"

// Side is which side of the book an order sits on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "Unknown"
	}
}

// Opposite returns the side a given side matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType selects the fill flow an order is dispatched through.
type OrderType int

const (
	Limit OrderType = iota
	Market
	ImmediateOrCancel
	FillOrKill
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "Limit"
	case Market:
		return "Market"
	case ImmediateOrCancel:
		return "Immediate or Cancel"
	case FillOrKill:
		return "Fill or Kill"
	default:
		return "Unknown"
	}
}

// OrderStatus tracks an order's lifecycle from entry to exit.
type OrderStatus int

const (
	PendingNew OrderStatus = iota
	Active
	PartiallyFilled
	Filled
	Canceled
	Rejected
	Expired
)

func (s OrderStatus) String() string {
	switch s {
	case PendingNew:
		return "Pending New"
	case Active:
		return "Active"
	case PartiallyFilled:
		return "Partially Filled"
	case Filled:
		return "Filled"
	case Canceled:
		return "Canceled"
	case Rejected:
		return "Rejected"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Symbol is the closed set of tickers the surrounding book manager routes
// by. The matching core itself never looks at this type — a Book is
// symbol-agnostic by design (see Order.Symbol being absent below).
type Symbol int

const (
	AAPL Symbol = iota
	MSFT
	GOOGL
	AMZN
	TSLA
	META
	NVDA
	AMD
	INTC
	NFLX
)

func (s Symbol) String() string {
	switch s {
	case AAPL:
		return "AAPL"
	case MSFT:
		return "MSFT"
	case GOOGL:
		return "GOOGL"
	case AMZN:
		return "AMZN"
	case TSLA:
		return "TSLA"
	case META:
		return "META"
	case NVDA:
		return "NVDA"
	case AMD:
		return "AMD"
	case INTC:
		return "INTC"
	case NFLX:
		return "NFLX"
	default:
		return fmt.Sprintf("Symbol(%d)", int(s))
	}
}

// Order is the unit the matching core accepts, mutates, and rests.
//
// Identity fields (order_id, user_id, order_type, order_side, price) are
// immutable once the order enters the book. Quantity decreases as fills
// accumulate; order_status is assigned by the book, never by the caller.
type Order struct {
	OrderID     uint64
	UserID      uint32
	OrderType   OrderType
	OrderSide   Side
	Price       uint32 // tick index; advisory for Market orders
	Quantity    int32  // remaining quantity; always >= 0 for a live order
	OrderStatus OrderStatus
}

func (o Order) String() string {
	return fmt.Sprintf("Order{id=%d user=%d %s %s price=%d qty=%d status=%s}",
		o.OrderID, o.UserID, o.OrderType, o.OrderSide, o.Price, o.Quantity, o.OrderStatus)
}

// Fill is one atomic transfer of liquidity from a resting order to an
// aggressive order. Fills are append-only once recorded.
type Fill struct {
	AggressiveOrderID uint64
	RestingOrderID    uint64
	Price             uint32
	Quantity          uint32
	Timestamp         uint64 // monotonic, not wall-clock
}

func (f Fill) String() string {
	return fmt.Sprintf("Fill{aggressive=%d resting=%d price=%d qty=%d ts=%d}",
		f.AggressiveOrderID, f.RestingOrderID, f.Price, f.Quantity, f.Timestamp)
}
