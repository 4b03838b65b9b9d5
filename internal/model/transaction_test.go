package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRealTransactionAmountFallback(t *testing.T) {
	t.Parallel()

	columns := []string{"amount", "tradeMoney"}

	t.Run("first column wins", func(t *testing.T) {
		txn := RealTransaction{"amount": -12.5, "tradeMoney": 99.0}
		got, ok := txn.Amount(columns)
		require.True(t, ok)
		require.Equal(t, "-12.5", got.String())
	})

	t.Run("falls through null", func(t *testing.T) {
		txn := RealTransaction{"amount": nil, "tradeMoney": "42.01"}
		got, ok := txn.Amount(columns)
		require.True(t, ok)
		require.Equal(t, "42.01", got.String())
	})

	t.Run("nothing present", func(t *testing.T) {
		_, ok := RealTransaction{"currency": "EUR"}.Amount(columns)
		require.False(t, ok)
	})
}

func TestRealTransactionField(t *testing.T) {
	t.Parallel()

	txn := RealTransaction{"description": "coffee", "amount": 3.2, "mcc": nil}

	v, ok := txn.Field("description")
	require.True(t, ok)
	require.Equal(t, "coffee", v)

	v, ok = txn.Field("amount")
	require.True(t, ok)
	require.Equal(t, "3.2", v)

	_, ok = txn.Field("mcc")
	require.False(t, ok)

	_, ok = txn.Field("missing")
	require.False(t, ok)
}

func TestQuantityDecimal(t *testing.T) {
	t.Parallel()

	q := Quantity{FloatingPoint: -12.34, DecimalPlaces: 2, DecimalMantissa: -1234}
	require.Equal(t, "-12.34", q.Decimal().String())

	q = Quantity{FloatingPoint: 5, DecimalPlaces: 0, DecimalMantissa: 5}
	require.Equal(t, "5", q.Decimal().String())
}

func TestHledgerTransactionUUID(t *testing.T) {
	t.Parallel()

	t.Run("transaction tag", func(t *testing.T) {
		txn := HledgerTransaction{Tags: [][]string{{"uuid", "abc-123"}}}
		require.Equal(t, "abc-123", txn.UUID())
	})

	t.Run("posting tag", func(t *testing.T) {
		txn := HledgerTransaction{Postings: []Posting{
			{Account: "expenses:coffee"},
			{Account: "assets:ing", Tags: [][]string{{"uuid", "def-456"}}},
		}}
		require.Equal(t, "def-456", txn.UUID())
	})

	t.Run("no tag", func(t *testing.T) {
		require.Empty(t, (&HledgerTransaction{}).UUID())
	})
}

func TestHledgerTransactionAccounts(t *testing.T) {
	t.Parallel()

	txn := HledgerTransaction{Postings: []Posting{
		{Account: "expenses:groceries", Amounts: []Amount{{Commodity: "EUR", Quantity: Quantity{DecimalMantissa: 1250, DecimalPlaces: 2}}}},
		{Account: "assets:bank:ing", Amounts: []Amount{{Commodity: "EUR", Quantity: Quantity{DecimalMantissa: -1250, DecimalPlaces: 2}}}},
	}}

	require.Equal(t, "assets:bank:ing", txn.MatchingAccount("ing"))
	require.Equal(t, "expenses:groceries", txn.TargetAccount("ing"))

	amt, ok := txn.Amount("ing")
	require.True(t, ok)
	require.Equal(t, "-12.5", amt.Quantity.Decimal().String())
}

func TestHledgerTransactionDecode(t *testing.T) {
	t.Parallel()

	payload := `{
		"tdescription": "ALBERT HEIJN",
		"tdate": "2021-06-03",
		"ttags": [["uuid", "a1"]],
		"tpostings": [
			{"paccount": "expenses:groceries", "pamount": [{"acommodity": "EUR", "aquantity": {"floatingPoint": 12.5, "decimalPlaces": 2, "decimalMantissa": 1250}}]},
			{"paccount": "assets:bank:ing", "pamount": [{"acommodity": "EUR", "aquantity": {"floatingPoint": -12.5, "decimalPlaces": 2, "decimalMantissa": -1250}, "aprice": {"tag": "UnitPrice", "contents": {"acommodity": "USD", "aquantity": {"floatingPoint": 1.2, "decimalPlaces": 1, "decimalMantissa": 12}}}}]}
		]
	}`
	var txn HledgerTransaction
	require.NoError(t, json.Unmarshal([]byte(payload), &txn))
	require.Equal(t, "a1", txn.UUID())
	require.Len(t, txn.Postings, 2)
	price := txn.Postings[1].Amounts[0].Price
	require.NotNil(t, price)
	require.Equal(t, "UnitPrice", price.Tag)
	require.Equal(t, "USD", price.Contents.Commodity)
}

func TestTransactionRowKey(t *testing.T) {
	t.Parallel()

	row := TransactionRow{Real: RealTransaction{"id": "r-1"}}
	require.Equal(t, "r-1", row.Key())

	row = TransactionRow{Hledger: &HledgerTransaction{Tags: [][]string{{"uuid", "u-1"}}}}
	require.Equal(t, "u-1", row.Key())

	require.Empty(t, TransactionRow{}.Key())
}

func TestCollectFields(t *testing.T) {
	t.Parallel()

	rows := []TransactionRow{
		{Real: RealTransaction{"b": 1.0, "a": "x"}},
		{Real: RealTransaction{"c": "y", "a": "z"}},
		{}, // unmatched ledger-only row
	}
	require.Equal(t, []string{"a", "b", "c"}, CollectFields(rows))
}

func TestNewRule(t *testing.T) {
	t.Parallel()

	r := NewRule()
	require.Equal(t, 100, r.Priority)
	// the sentinel regex matches nothing
	require.Equal(t, "$^", r.MatchFieldRegex)
	require.Len(t, r.Postings, 1)
	require.True(t, r.Postings[0].Negate)
}

func TestSortRules(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{ID: 1, Priority: 200, RuleName: "b"},
		{ID: 2, Priority: 100, RuleName: "z"},
		{ID: 3, Priority: 100, RuleName: "a"},
	}
	SortRules(rules)
	require.Equal(t, []int64{3, 2, 1}, []int64{rules[0].ID, rules[1].ID, rules[2].ID})
}
