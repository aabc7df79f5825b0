package engine

import (
	"time"

	"fenrir/internal/common"
	"fenrir/internal/ringbuf"
)

// AddOrder validates the order's price and dispatches it to the fill flow
// for its order type. The order is passed by value; the caller retains no
// further claim on the identity once this returns.
func (b *Book) AddOrder(order common.Order) error {
	start := time.Now()
	defer b.observe("AddOrder", start)

	if order.Price >= uint32(b.tickCount) {
		return common.ErrPriceOutOfRange
	}
	return b.executeFillByOrderType(order)
}

// CancelOrder removes a resting order by id, freeing its ledger slot and
// clearing the active-level bit if it was the last order at that tick.
func (b *Book) CancelOrder(orderID uint64) error {
	start := time.Now()
	defer b.observe("CancelOrder", start)

	idx, ok := b.indexMappings[orderID]
	if !ok {
		return common.ErrOrderNotFound
	}
	order, ok := b.ledger.Get(idx)
	if !ok {
		return common.ErrOrderNotFound
	}
	if order.Price >= uint32(b.tickCount) {
		return common.ErrPriceOutOfRange
	}

	tick := int(order.Price)
	queue := b.bidQueues[tick]
	if order.OrderSide == common.Sell {
		queue = b.askQueues[tick]
	}

	queue.RemoveByValue(idx)
	b.releaseOrder(orderID, idx)

	if !queue.IsEmpty() {
		return nil
	}

	switch order.OrderSide {
	case common.Buy:
		_ = b.bidLevels.Clear(tick)
		b.noteLevelInactive(common.Buy, tick)
		b.refreshBestBidIfStale()
	case common.Sell:
		_ = b.askLevels.Clear(tick)
		b.noteLevelInactive(common.Sell, tick)
		b.refreshBestAskIfStale()
	}
	return nil
}

// ModifyOrder is cancel-then-add: the modified order's priority dates from
// the modification, not its original arrival — a quantity or price change
// is a new time slot, not an amendment in place.
func (b *Book) ModifyOrder(orderID uint64, newOrder common.Order) error {
	start := time.Now()
	defer b.observe("ModifyOrder", start)

	if err := b.CancelOrder(orderID); err != nil {
		return err
	}
	return b.AddOrder(newOrder)
}

func (b *Book) executeFillByOrderType(order common.Order) error {
	switch order.OrderType {
	case common.Limit:
		fills, err := b.fillLimitOrder(&order)
		if err != nil {
			return err
		}
		partiallyFilled := len(fills) > 0
		if order.Quantity > 0 {
			return b.restRemainingLimitOrder(order, partiallyFilled)
		}
		return nil

	case common.Market:
		_, err := b.fillMarketOrder(&order)
		if err != nil {
			return err
		}
		if order.Quantity > 0 {
			b.logger.Debug().
				Uint64("orderId", order.OrderID).
				Str("side", order.OrderSide.String()).
				Msg("market order exhausted the book before filling")
			return common.ErrInsufficientLiquidity
		}
		return nil

	case common.ImmediateOrCancel:
		_, err := b.fillImmediateOrCancelOrder(&order)
		return err

	case common.FillOrKill:
		_, err := b.fillFillOrKillOrder(&order)
		if err != nil {
			b.logger.Debug().
				Uint64("orderId", order.OrderID).
				Str("side", order.OrderSide.String()).
				Msg("fill-or-kill order could not be filled completely")
		}
		return err
	}
	return nil
}

// fillLimitOrder scans the opposite side between the order's limit price
// and the top of book: ascending over asks for a Buy, descending over bids
// for a Sell. The limit price caps how far the matcher walks.
func (b *Book) fillLimitOrder(order *common.Order) ([]common.Fill, error) {
	var fills []common.Fill
	var err error

	switch order.OrderSide {
	case common.Buy:
		fills, err = b.matchOrderAgainstBook(order, 0, int(order.Price))
	case common.Sell:
		fills, err = b.matchOrderAgainstBook(order, int(order.Price), b.tickCount-1)
	}
	if err != nil {
		return fills, err
	}

	b.tradeHistory = append(b.tradeHistory, fills...)
	return fills, nil
}

// fillMarketOrder scans the entire opposite side, ascending asks for a Buy
// and descending bids for a Sell, ignoring the order's advisory price.
func (b *Book) fillMarketOrder(order *common.Order) ([]common.Fill, error) {
	fills, err := b.matchOrderAgainstBook(order, 0, b.tickCount-1)
	if err != nil {
		return fills, err
	}
	b.tradeHistory = append(b.tradeHistory, fills...)
	return fills, nil
}

// fillImmediateOrCancelOrder delegates to fillLimitOrder; any unfilled
// remainder is dropped by the caller (executeFillByOrderType never rests it).
func (b *Book) fillImmediateOrCancelOrder(order *common.Order) ([]common.Fill, error) {
	return b.fillLimitOrder(order)
}

// fillFillOrKillOrder prechecks that the order can be filled completely
// before touching book state; a failed precheck produces no fills at all.
func (b *Book) fillFillOrKillOrder(order *common.Order) ([]common.Fill, error) {
	if !b.canFillCompletely(*order) {
		return nil, common.ErrCannotFillCompletely
	}
	return b.fillLimitOrder(order)
}

// matchOrderAgainstBook is the traversal heart. matchSide is always the
// opposite of the aggressor's side. A Buy aggressor matches asks, scanned
// ascending; a Sell aggressor matches bids, scanned descending — never the
// reverse.
func (b *Book) matchOrderAgainstBook(aggressor *common.Order, start, end int) ([]common.Fill, error) {
	var fills []common.Fill
	matchSide := aggressor.OrderSide.Opposite()

	switch matchSide {
	case common.Sell:
		for i := start; i <= end && aggressor.Quantity > 0; i++ {
			if !b.askLevels.IsSet(i) {
				continue
			}
			if err := b.drainLevel(common.Sell, i, b.askQueues[i], aggressor, &fills); err != nil {
				return fills, err
			}
		}
	case common.Buy:
		for i := end; i >= start && aggressor.Quantity > 0; i-- {
			if !b.bidLevels.IsSet(i) {
				continue
			}
			if err := b.drainLevel(common.Buy, i, b.bidQueues[i], aggressor, &fills); err != nil {
				return fills, err
			}
		}
	}

	return fills, nil
}

// drainLevel consumes resting liquidity at one tick until the aggressor is
// filled or the level empties, then clears the active-level bit and
// refreshes BBO if the level is now empty. This is the authoritative
// clear: it is checked after the drain completes, never performed inside
// fillOrder itself.
func (b *Book) drainLevel(side common.Side, tick int, queue *ringbuf.RingBuffer, aggressor *common.Order, fills *[]common.Fill) error {
	for aggressor.Quantity > 0 && !queue.IsEmpty() {
		restingIndex, err := queue.PopFront()
		if err != nil {
			return err
		}
		if _, err := b.fillOrder(queue, aggressor, restingIndex, fills); err != nil {
			return err
		}
	}

	if !queue.IsEmpty() {
		return nil
	}

	switch side {
	case common.Buy:
		_ = b.bidLevels.Clear(tick)
		b.noteLevelInactive(common.Buy, tick)
		b.refreshBestBidIfStale()
	case common.Sell:
		_ = b.askLevels.Clear(tick)
		b.noteLevelInactive(common.Sell, tick)
		b.refreshBestAskIfStale()
	}
	return nil
}

// fillOrder is the atomic liquidity-transfer primitive: it consumes one
// resting order against the aggressor and appends exactly one fill.
func (b *Book) fillOrder(queue *ringbuf.RingBuffer, aggressor *common.Order, restingIndex int, fills *[]common.Fill) (bool, error) {
	resting, ok := b.ledger.Get(restingIndex)
	if !ok {
		return false, common.ErrOrderNotFound
	}

	switch {
	case resting.Quantity == aggressor.Quantity:
		b.recordFill(aggressor.OrderID, resting.OrderID, resting.Price, uint32(resting.Quantity), fills)
		b.releaseOrder(resting.OrderID, restingIndex)
		aggressor.Quantity = 0
		return true, nil

	case resting.Quantity > aggressor.Quantity:
		filled := aggressor.Quantity
		b.recordFill(aggressor.OrderID, resting.OrderID, resting.Price, uint32(filled), fills)
		resting.Quantity -= filled
		resting.OrderStatus = common.PartiallyFilled
		b.ledger.Update(restingIndex, resting)
		if err := queue.PushFront(restingIndex); err != nil {
			return false, err
		}
		aggressor.Quantity = 0
		return true, nil

	default: // resting.Quantity < aggressor.Quantity
		b.recordFill(aggressor.OrderID, resting.OrderID, resting.Price, uint32(resting.Quantity), fills)
		aggressor.Quantity -= resting.Quantity
		b.releaseOrder(resting.OrderID, restingIndex)
		return false, nil
	}
}

// restRemainingLimitOrder inserts a Limit order's unfilled remainder into
// the ledger and the target level's queue, activating the level's bit and
// advancing BBO. A saturated level's queue is a terminal error: the order
// is not partially rested.
func (b *Book) restRemainingLimitOrder(order common.Order, partiallyFilled bool) error {
	if order.OrderType != common.Limit {
		return common.ErrNonLimitOrderRestAttempt
	}
	if partiallyFilled {
		order.OrderStatus = common.PartiallyFilled
	} else {
		order.OrderStatus = common.Active
	}

	tick := int(order.Price)
	var queue *ringbuf.RingBuffer
	switch order.OrderSide {
	case common.Buy:
		b.recalculateBestBid(tick)
		queue = b.bidQueues[tick]
	case common.Sell:
		b.recalculateBestAsk(tick)
		queue = b.askQueues[tick]
	}

	idx := b.ledger.Insert(order)
	if err := queue.PushBack(idx); err != nil {
		b.ledger.Release(idx)
		return err
	}
	b.indexMappings[order.OrderID] = idx

	switch order.OrderSide {
	case common.Buy:
		_ = b.bidLevels.Set(tick)
		b.noteLevelActive(common.Buy, tick)
	case common.Sell:
		_ = b.askLevels.Set(tick)
		b.noteLevelActive(common.Sell, tick)
	}
	return nil
}

// canFillCompletely is the FOK precheck: it sums resting opposite-side
// liquidity within the order's reachable range without mutating anything,
// stopping as soon as the order's quantity is covered.
func (b *Book) canFillCompletely(order common.Order) bool {
	need := int64(order.Quantity)
	var sum int64

	switch order.OrderSide {
	case common.Buy:
		for i := 0; i <= int(order.Price) && i < b.tickCount; i++ {
			if !b.askLevels.IsSet(i) {
				continue
			}
			sum += b.levelQuantity(b.askQueues[i])
			if sum >= need {
				return true
			}
		}
	case common.Sell:
		for i := b.tickCount - 1; i >= int(order.Price); i-- {
			if !b.bidLevels.IsSet(i) {
				continue
			}
			sum += b.levelQuantity(b.bidQueues[i])
			if sum >= need {
				return true
			}
		}
	}
	return sum >= need
}

func (b *Book) levelQuantity(queue *ringbuf.RingBuffer) int64 {
	var sum int64
	for _, idx := range queue.Iter() {
		if order, ok := b.ledger.Get(idx); ok {
			sum += int64(order.Quantity)
		}
	}
	return sum
}

func (b *Book) recordFill(aggressiveID, restingID uint64, price uint32, qty uint32, fills *[]common.Fill) {
	*fills = append(*fills, common.Fill{
		AggressiveOrderID: aggressiveID,
		RestingOrderID:    restingID,
		Price:             price,
		Quantity:          qty,
		Timestamp:         b.clock(),
	})
}

func (b *Book) releaseOrder(orderID uint64, idx int) {
	b.ledger.Release(idx)
	delete(b.indexMappings, orderID)
}
