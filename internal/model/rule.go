package model

import "sort"

// Rule maps a raw transaction field pattern to ledger posting templates.
// Priority resolution happens server-side; lower evaluates first.
type Rule struct {
	ID                  int64         `json:"id"`
	Priority            int           `json:"priority"`
	RuleName            string        `json:"ruleName"`
	MatchFieldName      string        `json:"matchFieldName"`
	MatchFieldRegex     string        `json:"matchFieldRegex"`
	DescriptionTemplate string        `json:"descriptionTemplate"`
	Postings            []RulePosting `json:"postings,omitempty"`
}

// RulePosting is one posting template of a rule.
type RulePosting struct {
	Account           string     `json:"account"`
	AmountFieldName   string     `json:"amountFieldName,omitempty"`
	CurrencyFieldName string     `json:"currencyFieldName,omitempty"`
	Price             *RulePrice `json:"price,omitempty"`
	Negate            bool       `json:"negate"`
	Comment           string     `json:"comment,omitempty"`
}

// RulePrice maps a posting's price annotation to source fields, used when the
// posting commodity differs from the settlement commodity.
type RulePrice struct {
	AmountFieldName   string `json:"amountFieldName,omitempty"`
	CurrencyFieldName string `json:"currencyFieldName,omitempty"`
}

// NewRule is the placeholder payload for freshly created rules. The sentinel
// regex matches nothing until the user edits it.
func NewRule() Rule {
	return Rule{
		Priority:            100,
		RuleName:            "NEW RULE",
		MatchFieldName:      "description",
		MatchFieldRegex:     "$^",
		DescriptionTemplate: "{{description}}",
		Postings:            []RulePosting{{Account: "?", Negate: true}},
	}
}

// SortRules orders rules for display by (priority, ruleName).
func SortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].RuleName < rules[j].RuleName
	})
}
