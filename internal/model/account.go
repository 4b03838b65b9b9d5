package model

// ImportAccount describes one external transaction source and how its rows
// should be displayed. The registry is static; nothing mutates it at runtime.
type ImportAccount struct {
	ID             string
	HumanName      string
	Glyph          string
	DateColumn     string
	AmountColumns  []string
	DefaultColumns []string
}

// ImportAccounts is the list of supported import sources. A source may report
// its amount across several fields (e.g. trade amount vs. settlement amount);
// AmountColumns is tried in order.
var ImportAccounts = []ImportAccount{
	{
		ID:             "ing",
		HumanName:      "ING DiBa",
		Glyph:          "◨",
		DateColumn:     "made_on",
		AmountColumns:  []string{"amount"},
		DefaultColumns: []string{"currency", "description", "payee", "category"},
	},
	{
		ID:             "n26",
		HumanName:      "N26",
		Glyph:          "◧",
		DateColumn:     "visibleTS",
		AmountColumns:  []string{"amount"},
		DefaultColumns: []string{"currency", "referenceText", "partnerName", "merchantName", "mcc"},
	},
	{
		ID:             "ib",
		HumanName:      "Interactive Brokers",
		Glyph:          "◆",
		DateColumn:     "dateTime",
		AmountColumns:  []string{"amount", "tradeMoney"},
		DefaultColumns: []string{"currency", "description", "symbol", "quantity", "tradePrice", "ibCommission", "type"},
	},
}

// FindImportAccount looks up a registry entry by id.
func FindImportAccount(id string) (ImportAccount, bool) {
	for _, a := range ImportAccounts {
		if a.ID == id {
			return a, true
		}
	}
	return ImportAccount{}, false
}
