package subscription

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateWalletProportionalSplit(t *testing.T) {
	allocs := AllocateWallet([]float64{600, 400}, 500)
	require.Len(t, allocs, 2)

	assert.Equal(t, 300.0, allocs[0].WalletShare)
	assert.Equal(t, 300.0, allocs[0].Payable)
	assert.False(t, allocs[0].Paid)

	assert.Equal(t, 200.0, allocs[1].WalletShare)
	assert.Equal(t, 200.0, allocs[1].Payable)
	assert.False(t, allocs[1].Paid)
}

func TestAllocateWalletSharesSumExactly(t *testing.T) {
	amounts := []float64{33.33, 33.33, 33.34}
	applied := 50.0

	allocs := AllocateWallet(amounts, applied)

	shareSum := decimal.Zero
	payableSum := decimal.Zero
	for _, a := range allocs {
		shareSum = shareSum.Add(decimal.NewFromFloat(a.WalletShare))
		payableSum = payableSum.Add(decimal.NewFromFloat(a.Payable))
	}

	assert.True(t, shareSum.Equal(decimal.NewFromFloat(applied)),
		"shares sum to %s, want %v", shareSum, applied)
	assert.True(t, payableSum.Equal(decimal.NewFromFloat(100.00-applied)),
		"payables sum to %s", payableSum)
}

func TestAllocateWalletFullCoverageMarksPaid(t *testing.T) {
	allocs := AllocateWallet([]float64{120, 80}, 200)

	for i, a := range allocs {
		assert.True(t, a.Paid, "line %d should be fully covered", i)
		assert.Equal(t, 0.0, a.Payable)
	}
	assert.Equal(t, 120.0, allocs[0].WalletShare)
	assert.Equal(t, 80.0, allocs[1].WalletShare)
}

func TestAllocateWalletCapsAtTotal(t *testing.T) {
	allocs := AllocateWallet([]float64{100}, 250)
	require.Len(t, allocs, 1)

	assert.Equal(t, 100.0, allocs[0].WalletShare)
	assert.Equal(t, 0.0, allocs[0].Payable)
	assert.True(t, allocs[0].Paid)
}

func TestAllocateWalletZeroApplied(t *testing.T) {
	allocs := AllocateWallet([]float64{90, 10}, 0)

	assert.Equal(t, 0.0, allocs[0].WalletShare)
	assert.Equal(t, 90.0, allocs[0].Payable)
	assert.False(t, allocs[0].Paid)
	assert.Equal(t, 10.0, allocs[1].Payable)
}

func TestAllocateWalletEmptyLines(t *testing.T) {
	assert.Empty(t, AllocateWallet(nil, 100))
}
