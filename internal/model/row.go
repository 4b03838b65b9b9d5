package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TransactionRow pairs a raw transaction with its matched ledger entry and
// the rule that produced it, when either exists. Recorded rows additionally
// carry running balances and per-row errors from the backend.
type TransactionRow struct {
	Real              RealTransaction     `json:"real_transaction"`
	Hledger           *HledgerTransaction `json:"hledger_transaction,omitempty"`
	Rule              *Rule               `json:"rule,omitempty"`
	RealCumulative    *decimal.Decimal    `json:"real_cumulative,omitempty"`
	HledgerCumulative *decimal.Decimal    `json:"hledger_cumulative,omitempty"`
	Errors            []string            `json:"errors,omitempty"`
}

// Key returns the row identity: the raw transaction's own id when present,
// else the ledger entry's uuid tag.
func (r TransactionRow) Key() string {
	if id := r.Real.ID(); id != "" {
		return id
	}
	if r.Hledger != nil {
		return r.Hledger.UUID()
	}
	return ""
}

// CollectFields returns the sorted union of raw-transaction field names
// observed across rows.
func CollectFields(rows []TransactionRow) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r.Real {
			seen[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
