package bookmanager_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/bookmanager"
	"fenrir/internal/common"
)

func testConfig() common.BookConfig {
	return common.BookConfig{
		MinPrice:      0,
		MaxPrice:      100,
		TickSize:      1,
		LevelCapacity: 8,
	}
}

func TestManager_SubmitAndBBO(t *testing.T) {
	m, err := bookmanager.New(context.Background(), map[common.Symbol]common.BookConfig{
		common.AAPL: testConfig(),
	})
	require.NoError(t, err)
	defer m.Stop()

	require.NoError(t, m.Submit(common.AAPL, common.Order{
		OrderID:   1,
		OrderType: common.Limit,
		OrderSide: common.Buy,
		Price:     40,
		Quantity:  10,
	}))

	bid, hasBid, _, hasAsk, err := m.BBO(common.AAPL)
	require.NoError(t, err)
	assert.True(t, hasBid)
	assert.Equal(t, 40, bid)
	assert.False(t, hasAsk)
}

func TestManager_UnknownSymbol(t *testing.T) {
	m, err := bookmanager.New(context.Background(), map[common.Symbol]common.BookConfig{
		common.AAPL: testConfig(),
	})
	require.NoError(t, err)
	defer m.Stop()

	err = m.Submit(common.MSFT, common.Order{OrderID: 1, OrderType: common.Limit, OrderSide: common.Buy, Price: 10, Quantity: 1})
	require.ErrorIs(t, err, bookmanager.ErrUnknownSymbol)
}

func TestManager_CancelAndModify(t *testing.T) {
	m, err := bookmanager.New(context.Background(), map[common.Symbol]common.BookConfig{
		common.AAPL: testConfig(),
	})
	require.NoError(t, err)
	defer m.Stop()

	order := common.Order{OrderID: 1, OrderType: common.Limit, OrderSide: common.Buy, Price: 40, Quantity: 10}
	require.NoError(t, m.Submit(common.AAPL, order))
	require.NoError(t, m.Modify(common.AAPL, 1, common.Order{OrderID: 1, OrderType: common.Limit, OrderSide: common.Buy, Price: 45, Quantity: 10}))

	bid, hasBid, _, _, err := m.BBO(common.AAPL)
	require.NoError(t, err)
	require.True(t, hasBid)
	assert.Equal(t, 45, bid)

	require.NoError(t, m.Cancel(common.AAPL, 1))
	_, hasBid, _, _, err = m.BBO(common.AAPL)
	require.NoError(t, err)
	assert.False(t, hasBid)
}

func TestManager_StopRejectsFurtherCalls(t *testing.T) {
	m, err := bookmanager.New(context.Background(), map[common.Symbol]common.BookConfig{
		common.AAPL: testConfig(),
	})
	require.NoError(t, err)
	require.NoError(t, m.Stop())

	err = m.Submit(common.AAPL, common.Order{OrderID: 1, OrderType: common.Limit, OrderSide: common.Buy, Price: 40, Quantity: 10})
	require.ErrorIs(t, err, bookmanager.ErrManagerStopped)
}
