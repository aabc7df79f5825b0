package engine

import (
	"github.com/tidwall/btree"

	"fenrir/internal/common"
)

// newDepthIndex builds the ascending-by-tick ordered index used for Depth
// snapshots. This mirrors orderbook.go's btree.BTreeG[*PriceLevel] price
// axis, demoted from the primary book structure to an optional,
// off-hot-path reporting view: the matching traversal itself only ever
// consults the bitset, which gives an O(1) per-level presence check a
// B-tree cannot, never this tree.
func newDepthIndex() *btree.BTreeG[int] {
	return btree.NewBTreeG(func(a, b int) bool { return a < b })
}

// DepthLevel is one row of a Depth snapshot: a tick and the aggregate
// resting quantity at it.
type DepthLevel struct {
	Tick     int
	Quantity int64
}

func (b *Book) noteLevelActive(side common.Side, tick int) {
	idx := b.bidDepthIndex
	if side == common.Sell {
		idx = b.askDepthIndex
	}
	if idx == nil {
		return
	}
	idx.Set(tick)
}

func (b *Book) noteLevelInactive(side common.Side, tick int) {
	idx := b.bidDepthIndex
	if side == common.Sell {
		idx = b.askDepthIndex
	}
	if idx == nil {
		return
	}
	idx.Delete(tick)
}

// Depth returns a snapshot of every active tick on the given side, in
// best-first order (descending for bids, ascending for asks), along with
// the aggregate resting quantity at each. It requires the book to have
// been constructed with WithDepthIndex; otherwise it returns nil.
func (b *Book) Depth(side common.Side) []DepthLevel {
	idx := b.bidDepthIndex
	queues := b.bidQueues
	if side == common.Sell {
		idx = b.askDepthIndex
		queues = b.askQueues
	}
	if idx == nil {
		return nil
	}

	var ticks []int
	idx.Scan(func(tick int) bool {
		ticks = append(ticks, tick)
		return true
	})
	if side == common.Buy {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}

	levels := make([]DepthLevel, 0, len(ticks))
	for _, tick := range ticks {
		var qty int64
		for _, ledgerIdx := range queues[tick].Iter() {
			order, ok := b.ledger.Get(ledgerIdx)
			if ok {
				qty += int64(order.Quantity)
			}
		}
		levels = append(levels, DepthLevel{Tick: tick, Quantity: qty})
	}
	return levels
}
