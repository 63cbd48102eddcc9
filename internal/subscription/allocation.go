package subscription

import "github.com/shopspring/decimal"

// Allocation is the wallet/payable split for one subscription line.
type Allocation struct {
	WalletShare float64
	Payable     float64
	Paid        bool
}

// AllocateWallet splits walletApplied across the line amounts proportionally
// to each line's share of the total. Shares are rounded to 2dp and the
// rounding remainder is folded into the last line, so the shares always sum
// to exactly walletApplied. A line is Paid when its payable remainder is <= 0.
func AllocateWallet(amounts []float64, walletApplied float64) []Allocation {
	allocs := make([]Allocation, len(amounts))
	if len(amounts) == 0 {
		return allocs
	}

	total := decimal.Zero
	decAmounts := make([]decimal.Decimal, len(amounts))
	for i, a := range amounts {
		decAmounts[i] = decimal.NewFromFloat(a)
		total = total.Add(decAmounts[i])
	}

	applied := decimal.NewFromFloat(walletApplied)
	if applied.GreaterThan(total) {
		applied = total
	}

	if total.IsZero() || applied.IsZero() {
		for i, a := range decAmounts {
			allocs[i] = Allocation{Payable: a.InexactFloat64(), Paid: a.LessThanOrEqual(decimal.Zero)}
		}
		return allocs
	}

	distributed := decimal.Zero
	for i, a := range decAmounts {
		var share decimal.Decimal
		if i == len(decAmounts)-1 {
			share = applied.Sub(distributed)
		} else {
			share = applied.Mul(a).Div(total).Round(2)
			distributed = distributed.Add(share)
		}

		payable := a.Sub(share)
		allocs[i] = Allocation{
			WalletShare: share.InexactFloat64(),
			Payable:     payable.InexactFloat64(),
			Paid:        payable.LessThanOrEqual(decimal.Zero),
		}
	}

	return allocs
}
