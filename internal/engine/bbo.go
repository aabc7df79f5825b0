package engine

// recalculateBestBid is the fast insertion-time path: it only ever raises
// the cached best bid, never lowers it. Lowering happens via
// refreshBestBidIfStale, called when the level the cache points at empties.
func (b *Book) recalculateBestBid(tick int) {
	if !b.hasBestBid || tick > b.bestBidIndex {
		b.bestBidIndex = tick
		b.hasBestBid = true
	}
}

// recalculateBestAsk is symmetric: it only ever lowers the cached best ask.
func (b *Book) recalculateBestAsk(tick int) {
	if !b.hasBestAsk || tick < b.bestAskIndex {
		b.bestAskIndex = tick
		b.hasBestAsk = true
	}
}

// refreshBestBidIfStale recomputes the cached best bid from the active-
// level bitset whenever the level it points at is no longer active — the
// authoritative fallback for when cancellation or a full consumption
// empties the level the fast path last pointed at.
func (b *Book) refreshBestBidIfStale() {
	if b.hasBestBid && b.bidLevels.IsSet(b.bestBidIndex) {
		return
	}
	if tick, ok := b.bidLevels.FindLastSet(); ok {
		b.bestBidIndex = tick
		b.hasBestBid = true
	} else {
		b.hasBestBid = false
	}
}

// refreshBestAskIfStale is the ask-side counterpart of refreshBestBidIfStale.
func (b *Book) refreshBestAskIfStale() {
	if b.hasBestAsk && b.askLevels.IsSet(b.bestAskIndex) {
		return
	}
	if tick, ok := b.askLevels.FindFirstSet(); ok {
		b.bestAskIndex = tick
		b.hasBestAsk = true
	} else {
		b.hasBestAsk = false
	}
}
