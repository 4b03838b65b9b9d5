package model

import "github.com/shopspring/decimal"

// syncTolerance is the exclusive bound under which a real/ledger pair counts
// as reconciled.
var syncTolerance = decimal.RequireFromString("0.1")

// Balance pairs the externally reported balance of one commodity with the
// balance recorded in the ledger. RealEuro carries the real side converted to
// the reporting currency when the backend knows the rate.
type Balance struct {
	Commodity string           `json:"commodity"`
	Real      decimal.Decimal  `json:"real"`
	Hledger   decimal.Decimal  `json:"hledger"`
	RealEuro  *decimal.Decimal `json:"realEuro,omitempty"`
}

// InSync reports whether the pair differs by less than the tolerance. The
// comparison uses the converted value when present, the raw commodity pair
// otherwise.
func (b Balance) InSync() bool {
	real := b.Real
	if b.RealEuro != nil {
		real = *b.RealEuro
	}
	return real.Sub(b.Hledger).Abs().LessThan(syncTolerance)
}

// BalancesResponse is the per-account balance payload.
type BalancesResponse struct {
	Balances []Balance `json:"balances"`
}
