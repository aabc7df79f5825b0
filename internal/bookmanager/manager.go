// Package bookmanager is the per-symbol dispatcher that sits outside the
// matching core: it owns one engine.Book per symbol and serializes every
// call into it through a single supervised goroutine, honoring the core's
// single-writer-per-book contract. Routing orders to the right symbol and
// running several books concurrently is external to the core by design —
// this package is that external layer, not part of it.
//
// There is deliberately no wire protocol here. Submit/Cancel/Modify/Depth
// are plain Go calls; framing client connections onto them is a concern
// this package does not take on.
package bookmanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/common"
	"fenrir/internal/engine"
)

// ErrUnknownSymbol is returned when an operation names a symbol the
// Manager was never configured to carry a book for.
var ErrUnknownSymbol = errors.New("bookmanager: unknown symbol")

// ErrManagerStopped is returned by any operation submitted after Stop has
// been called.
var ErrManagerStopped = errors.New("bookmanager: manager stopped")

type request struct {
	run   func(*engine.Book) (any, error)
	reply chan response
}

type response struct {
	value any
	err   error
}

type symbolWorker struct {
	symbol common.Symbol
	book   *engine.Book
	inbox  chan request
	logger zerolog.Logger
}

// Manager owns one goroutine-supervised book per symbol. The zero value is
// not usable; construct with New.
type Manager struct {
	t       *tomb.Tomb
	workers map[common.Symbol]*symbolWorker
	logger  zerolog.Logger
}

// New starts a Manager with one book per entry in configs, each running on
// its own tomb-supervised goroutine. If any book fails to construct, no
// symbol workers are started and the error is returned immediately.
func New(ctx context.Context, configs map[common.Symbol]common.BookConfig, opts ...engine.Option) (*Manager, error) {
	t, _ := tomb.WithContext(ctx)

	m := &Manager{
		t:       t,
		workers: make(map[common.Symbol]*symbolWorker, len(configs)),
		logger:  log.Logger,
	}

	for symbol, cfg := range configs {
		book, err := engine.NewBook(cfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("bookmanager: constructing book for %s: %w", symbol, err)
		}
		w := &symbolWorker{
			symbol: symbol,
			book:   book,
			inbox:  make(chan request, 64),
			logger: m.logger.With().Str("symbol", symbol.String()).Logger(),
		}
		m.workers[symbol] = w
	}

	for _, w := range m.workers {
		w := w
		t.Go(func() error {
			return w.run(t)
		})
	}

	m.logger.Info().Int("symbols", len(m.workers)).Msg("book manager started")
	return m, nil
}

func (w *symbolWorker) run(t *tomb.Tomb) error {
	w.logger.Info().Msg("symbol worker starting")
	for {
		select {
		case <-t.Dying():
			w.logger.Info().Msg("symbol worker stopping")
			return nil
		case req := <-w.inbox:
			value, err := req.run(w.book)
			req.reply <- response{value: value, err: err}
		}
	}
}

// dispatch submits run to the named symbol's worker and blocks for its
// reply, tagging the call with a fresh correlation id for tracing,
// independent of the caller-assigned OrderID any particular call happens
// to carry.
func (m *Manager) dispatch(symbol common.Symbol, run func(*engine.Book) (any, error)) (any, error) {
	w, ok := m.workers[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}

	correlationID := uuid.New().String()
	reply := make(chan response, 1)

	select {
	case w.inbox <- request{run: run, reply: reply}:
	case <-m.t.Dying():
		return nil, ErrManagerStopped
	}

	select {
	case resp := <-reply:
		return resp.value, resp.err
	case <-m.t.Dying():
		m.logger.Debug().Str("correlationId", correlationID).Msg("dispatch abandoned: manager stopping")
		return nil, ErrManagerStopped
	}
}

// Submit admits order into the book for symbol, serialized against every
// other call on that symbol.
func (m *Manager) Submit(symbol common.Symbol, order common.Order) error {
	_, err := m.dispatch(symbol, func(b *engine.Book) (any, error) {
		return nil, b.AddOrder(order)
	})
	return err
}

// Cancel removes orderID from symbol's book.
func (m *Manager) Cancel(symbol common.Symbol, orderID uint64) error {
	_, err := m.dispatch(symbol, func(b *engine.Book) (any, error) {
		return nil, b.CancelOrder(orderID)
	})
	return err
}

// Modify replaces orderID with newOrder in symbol's book.
func (m *Manager) Modify(symbol common.Symbol, orderID uint64, newOrder common.Order) error {
	_, err := m.dispatch(symbol, func(b *engine.Book) (any, error) {
		return nil, b.ModifyOrder(orderID, newOrder)
	})
	return err
}

// BBO returns the best bid and ask ticks for symbol.
func (m *Manager) BBO(symbol common.Symbol) (bestBid int, hasBid bool, bestAsk int, hasAsk bool, err error) {
	type bbo struct {
		bestBid int
		hasBid  bool
		bestAsk int
		hasAsk  bool
	}
	v, err := m.dispatch(symbol, func(b *engine.Book) (any, error) {
		bid, hb := b.BestBid()
		ask, ha := b.BestAsk()
		return bbo{bestBid: bid, hasBid: hb, bestAsk: ask, hasAsk: ha}, nil
	})
	if err != nil {
		return 0, false, 0, false, err
	}
	result := v.(bbo)
	return result.bestBid, result.hasBid, result.bestAsk, result.hasAsk, nil
}

// Depth returns a snapshot of symbol's active ticks on the given side. The
// underlying book must have been constructed with engine.WithDepthIndex,
// or this always returns nil.
func (m *Manager) Depth(symbol common.Symbol, side common.Side) ([]engine.DepthLevel, error) {
	v, err := m.dispatch(symbol, func(b *engine.Book) (any, error) {
		return b.Depth(side), nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]engine.DepthLevel), nil
}

// Stop signals every symbol worker to exit and waits for them to drain.
func (m *Manager) Stop() error {
	m.t.Kill(nil)
	return m.t.Wait()
}
