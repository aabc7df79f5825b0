// Package engine is the matching core: a fixed-tick price-indexed order
// book that accepts Limit/Market/IOC/FOK orders, matches them under strict
// price-time priority, rests unfilled Limit remainders, and emits a
// chronological sequence of fills. The book is single-writer by contract —
// every exported method runs to completion with exclusive access to the
// book's state; serializing concurrent callers is the caller's job (see
// internal/bookmanager for the external, per-symbol dispatcher that does
// this).
package engine

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"

	"fenrir/internal/bitset"
	"fenrir/internal/common"
	"fenrir/internal/ledger"
	"fenrir/internal/ringbuf"
)

const defaultLevelCapacity = 128

// Book is the matching core for a single symbol's liquidity.
type Book struct {
	config    common.BookConfig
	tickCount int

	bidQueues []*ringbuf.RingBuffer
	askQueues []*ringbuf.RingBuffer

	bidLevels *bitset.Bitset
	askLevels *bitset.Bitset

	ledger        *ledger.Ledger
	indexMappings map[uint64]int // order_id -> ledger index

	tradeHistory []common.Fill

	bestBidIndex int
	hasBestBid   bool
	bestAskIndex int
	hasBestAsk   bool

	clock Clock

	logger zerolog.Logger
	instr  Instrumentation

	bidDepthIndex *btree.BTreeG[int]
	askDepthIndex *btree.BTreeG[int]
}

// Option configures a Book at construction time.
type Option func(*Book)

// WithLogger overrides the book's structured logger (default: zerolog's
// global logger, matching the rest of this codebase's ambient logging).
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Book) { b.logger = logger }
}

// WithClock overrides the monotonic timestamp source fills are stamped
// with. The core never reads the wall clock itself — see Clock.
func WithClock(clock Clock) Option {
	return func(b *Book) { b.clock = clock }
}

// WithInstrumentation attaches a per-operation timing observer. See
// Instrumentation for the hook contract.
func WithInstrumentation(instr Instrumentation) Option {
	return func(b *Book) { b.instr = instr }
}

// WithDepthIndex enables the optional, off-hot-path ordered index over
// active ticks used by Depth. It is never consulted by the matching
// traversal itself — only the bitset is, since the traversal needs an
// O(1) per-level presence check and a B-tree can't give it one — so
// leaving it disabled costs nothing on the hot path.
func WithDepthIndex() Option {
	return func(b *Book) {
		b.bidDepthIndex = newDepthIndex()
		b.askDepthIndex = newDepthIndex()
	}
}

// NewBook validates config and constructs an empty book. LevelCapacity
// defaults to 128 (a power of two) if unset.
func NewBook(config common.BookConfig, opts ...Option) (*Book, error) {
	tickCount, ok := config.TickCount()
	if !ok {
		return nil, common.ErrInvalidConfigData
	}
	if config.LevelCapacity == 0 {
		config.LevelCapacity = defaultLevelCapacity
	}
	if !config.LevelCapacityValid() {
		return nil, common.ErrInvalidConfigData
	}

	b := &Book{
		config:        config,
		tickCount:     int(tickCount),
		ledger:        ledger.New(),
		indexMappings: make(map[uint64]int),
		bidLevels:     bitset.New(int(tickCount)),
		askLevels:     bitset.New(int(tickCount)),
		clock:         DefaultClock(),
		logger:        log.Logger,
	}

	levelCap := int(config.LevelCapacity)
	b.bidQueues = make([]*ringbuf.RingBuffer, tickCount)
	b.askQueues = make([]*ringbuf.RingBuffer, tickCount)
	for i := range b.bidQueues {
		b.bidQueues[i] = ringbuf.New(levelCap)
		b.askQueues[i] = ringbuf.New(levelCap)
	}

	for _, opt := range opts {
		opt(b)
	}

	b.logger.Info().
		Int("tickCount", b.tickCount).
		Uint32("levelCapacity", config.LevelCapacity).
		Msg("matching book constructed")

	return b, nil
}

// TickCount returns P, the number of valid price ticks.
func (b *Book) TickCount() int { return b.tickCount }

// TradeHistory returns a snapshot copy of every fill produced so far.
// The underlying slice is append-only from inside the book; callers must
// copy (as this does) or read only between calls.
func (b *Book) TradeHistory() []common.Fill {
	out := make([]common.Fill, len(b.tradeHistory))
	copy(out, b.tradeHistory)
	return out
}

// BestBid returns the best (highest) resting bid tick, if any.
func (b *Book) BestBid() (int, bool) {
	return b.bestBidIndex, b.hasBestBid
}

// BestAsk returns the best (lowest) resting ask tick, if any.
func (b *Book) BestAsk() (int, bool) {
	return b.bestAskIndex, b.hasBestAsk
}

func (b *Book) observe(op string, start time.Time) {
	if b.instr == nil {
		return
	}
	b.instr.Observe(op, time.Since(start))
}
