package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/wallet"
	"github.com/osse101/SpinWheel_Go/mocks"
)

func TestWallet_Refresh(t *testing.T) {
	svc := mocks.NewMockService(t)
	w := wallet.New(svc, "u1")

	svc.On("GetWallet", mock.Anything, "u1").Return(domain.Balances{
		GoldCoins:  decimal.NewFromInt(1000),
		SweepCoins: decimal.RequireFromString("1.5"),
	}, nil).Once()

	b, err := w.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, b.GoldCoins.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, b, w.Snapshot())
}

func TestWallet_RefreshFailureKeepsBalances(t *testing.T) {
	svc := mocks.NewMockService(t)
	w := wallet.New(svc, "u1")
	w.AddSweepCoins(decimal.NewFromInt(3))

	svc.On("GetWallet", mock.Anything, "u1").Return(domain.Balances{}, domain.ErrServiceUnavailable).Once()

	b, err := w.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrServiceUnavailable))
	assert.True(t, b.SweepCoins.Equal(decimal.NewFromInt(3)))
}

func TestWallet_AddSweepCoins(t *testing.T) {
	w := wallet.New(mocks.NewMockService(t), "u1")

	w.AddSweepCoins(decimal.RequireFromString("0.1"))
	b := w.AddSweepCoins(decimal.RequireFromString("0.2"))

	assert.Equal(t, "0.3", b.SweepCoins.String())
	assert.True(t, b.GoldCoins.IsZero())
}
