package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RealTransaction is a raw row as reported by a bank or broker. The shape
// depends on the source account, so it stays an open field bag; the set of
// fields for an account is discovered from the loaded rows.
type RealTransaction map[string]any

// ID returns the source-assigned identifier, if the row carries one.
func (t RealTransaction) ID() string {
	if v, ok := t["id"]; ok {
		return coerce(v)
	}
	return ""
}

// Field returns the string-coerced value of a field.
func (t RealTransaction) Field(name string) (string, bool) {
	v, ok := t[name]
	if !ok || v == nil {
		return "", false
	}
	return coerce(v), true
}

// Amount returns the first present amount column, tried in order.
func (t RealTransaction) Amount(columns []string) (decimal.Decimal, bool) {
	for _, col := range columns {
		v, ok := t[col]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n), true
		case string:
			if d, err := decimal.NewFromString(n); err == nil {
				return d, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func coerce(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return decimal.NewFromFloat(s).String()
	default:
		return fmt.Sprint(v)
	}
}

// Quantity mirrors hledger's JSON number representation.
type Quantity struct {
	FloatingPoint   float64 `json:"floatingPoint"`
	DecimalPlaces   int32   `json:"decimalPlaces"`
	DecimalMantissa int64   `json:"decimalMantissa"`
}

// Decimal reconstructs the exact quantity from mantissa and places.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(q.DecimalMantissa, -q.DecimalPlaces)
}

// Price is a posting's price annotation, either per unit or total.
type Price struct {
	Tag      string `json:"tag"` // "UnitPrice" or "TotalPrice"
	Contents Amount `json:"contents"`
}

// Amount is one commodity amount on a posting.
type Amount struct {
	Commodity string   `json:"acommodity"`
	Quantity  Quantity `json:"aquantity"`
	Price     *Price   `json:"aprice,omitempty"`
}

// Posting assigns an amount to a hierarchical account path.
type Posting struct {
	Account string     `json:"paccount"`
	Amounts []Amount   `json:"pamount"`
	Tags    [][]string `json:"ptags,omitempty"`
	Comment string     `json:"pcomment,omitempty"`
}

// HledgerTransaction is one recorded or generated ledger entry.
type HledgerTransaction struct {
	Description string     `json:"tdescription"`
	Date        string     `json:"tdate"`
	Tags        [][]string `json:"ttags,omitempty"`
	Postings    []Posting  `json:"tpostings,omitempty"`
}

const uuidTag = "uuid"

// UUID returns the uuid tag correlating this entry to a real transaction.
// The tag may sit on the transaction or on any posting.
func (t *HledgerTransaction) UUID() string {
	for _, tag := range t.Tags {
		if len(tag) == 2 && tag[0] == uuidTag {
			return tag[1]
		}
	}
	for _, p := range t.Postings {
		for _, tag := range p.Tags {
			if len(tag) == 2 && tag[0] == uuidTag {
				return tag[1]
			}
		}
	}
	return ""
}

// MatchingAccount returns the posting account that belongs to the import
// account, matched by path substring.
func (t *HledgerTransaction) MatchingAccount(importAccountID string) string {
	needle := strings.ToLower(importAccountID)
	for _, p := range t.Postings {
		if strings.Contains(strings.ToLower(p.Account), needle) {
			return p.Account
		}
	}
	return ""
}

// TargetAccount returns the first posting account outside the import
// account's own hierarchy.
func (t *HledgerTransaction) TargetAccount(importAccountID string) string {
	needle := ":" + strings.ToLower(importAccountID)
	for _, p := range t.Postings {
		if !strings.Contains(strings.ToLower(p.Account), needle) {
			return p.Account
		}
	}
	return ""
}

// Amount returns the amount posted against the import account's own posting.
func (t *HledgerTransaction) Amount(importAccountID string) (Amount, bool) {
	account := t.MatchingAccount(importAccountID)
	if account == "" {
		return Amount{}, false
	}
	for _, p := range t.Postings {
		if p.Account == account && len(p.Amounts) > 0 {
			return p.Amounts[0], true
		}
	}
	return Amount{}, false
}

// TransactionRequest asks the backend to generate (and optionally record)
// one ledger entry from a raw transaction and a draft template.
type TransactionRequest struct {
	DescriptionTemplate string          `json:"descriptionTemplate"`
	SourceTransaction   RealTransaction `json:"sourceTransaction"`
	Postings            []RulePosting   `json:"postings"`
	ShouldWrite         bool            `json:"shouldWrite"`
}
