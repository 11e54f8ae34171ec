package finance

import (
	"github.com/shopspring/decimal"

	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// DefaultCommissionRate applies when an artist has no contract on file.
var DefaultCommissionRate = decimal.NewFromInt(50)

var hundred = decimal.NewFromInt(100)

// Share is the split of one transaction's amount.
// Artist + Studio always equals the transaction amount exactly.
type Share struct {
	Artist decimal.Decimal
	Studio decimal.Decimal
}

// Contracts maps artist id -> contract for split lookups.
type Contracts map[string]models.ArtistContract

// Rate returns the clamped commission rate for an artist,
// falling back to the default when no contract exists.
func (c Contracts) Rate(artistID string) decimal.Decimal {
	contract, ok := c[artistID]
	if !ok {
		return DefaultCommissionRate
	}
	return clampRate(contract.CommissionRate)
}

func clampRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}

// Split computes the artist and studio shares of a transaction. This is the
// single source of truth for commission attribution: period totals, the
// monthly trend, the producer breakdown, exports and list rows all go
// through here.
//
// EXPENSE transactions are never split: they reduce studio net only.
func Split(tx models.Transaction, contracts Contracts) Share {
	if tx.Type == models.TxExpense || tx.ArtistID == nil {
		return Share{Artist: decimal.Zero, Studio: tx.Amount}
	}

	rate := contracts.Rate(*tx.ArtistID)
	artist := tx.Amount.Mul(rate).Div(hundred)
	return Share{Artist: artist, Studio: tx.Amount.Sub(artist)}
}

// AttributedRevenue resolves the revenue value of an INCOME transaction for
// a given viewer, under a perspective. Returns zero for expenses and for
// income an artist viewer does not own.
func AttributedRevenue(tx models.Transaction, contracts Contracts, role Role, viewerID string, p Perspective) decimal.Decimal {
	if tx.Type != models.TxIncome {
		return decimal.Zero
	}

	share := Split(tx, contracts)

	// Roles without full visibility only ever see their own commission.
	if !role.SeesAllFinancials() {
		if tx.ArtistID != nil && *tx.ArtistID == viewerID {
			return share.Artist
		}
		return decimal.Zero
	}

	if p == PerspectiveNet {
		return share.Studio
	}
	return tx.Amount
}
