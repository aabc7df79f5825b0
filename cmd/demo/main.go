// Command demo wires a bookmanager around a handful of symbols and runs a
// small scripted sequence of orders against one of them, logging the
// resulting BBO. It exists to exercise the matching core end to
// end; it is not a load-testing or benchmarking harness.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fenrir/internal/bookmanager"
	"fenrir/internal/common"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	configs := map[common.Symbol]common.BookConfig{
		common.AAPL: {MinPrice: 0, MaxPrice: 200_00, TickSize: 1, LevelCapacity: 256},
		common.MSFT: {MinPrice: 0, MaxPrice: 200_00, TickSize: 1, LevelCapacity: 256},
	}

	manager, err := bookmanager.New(ctx, configs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start book manager")
	}
	defer func() {
		if err := manager.Stop(); err != nil {
			log.Error().Err(err).Msg("book manager did not stop cleanly")
		}
	}()

	runScript(manager)
}

// runScript submits a small sequence of orders against AAPL: a resting ask,
// a crossing bid that only partially fills it, then a market buy that
// sweeps the remainder.
func runScript(manager *bookmanager.Manager) {
	symbol := common.AAPL

	resting := newOrder(common.Sell, common.Limit, 150_00, 10)
	if err := manager.Submit(symbol, resting); err != nil {
		log.Error().Err(err).Msg("failed to submit resting ask")
		return
	}

	aggressor := newOrder(common.Buy, common.Limit, 150_00, 4)
	if err := manager.Submit(symbol, aggressor); err != nil {
		log.Error().Err(err).Msg("failed to submit crossing bid")
		return
	}

	sweep := newOrder(common.Buy, common.Market, 0, 6)
	if err := manager.Submit(symbol, sweep); err != nil {
		log.Error().Err(err).Msg("failed to submit sweeping market buy")
	}

	bestBid, hasBid, bestAsk, hasAsk, err := manager.BBO(symbol)
	if err != nil {
		log.Error().Err(err).Msg("failed to read BBO")
		return
	}

	event := log.Info().
		Bool("hasBid", hasBid).
		Bool("hasAsk", hasAsk)
	if hasBid {
		event = event.Int("bestBid", bestBid)
	}
	if hasAsk {
		event = event.Int("bestAsk", bestAsk)
	}
	event.Msg("script complete")
}

var nextOrderID uint64

func newOrder(side common.Side, orderType common.OrderType, price uint32, qty int32) common.Order {
	nextOrderID++
	log.Debug().Str("traceId", uuid.New().String()).Msg("synthesizing order")
	return common.Order{
		OrderID:   nextOrderID,
		OrderType: orderType,
		OrderSide: side,
		Price:     price,
		Quantity:  qty,
	}
}
