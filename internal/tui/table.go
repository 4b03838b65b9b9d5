package tui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ledgerdash/ledgerdash/internal/format"
	"github.com/ledgerdash/ledgerdash/internal/model"
)

// pageSize is the fixed number of rows per table page.
const pageSize = 25

type sortDir int

const (
	sortNone sortDir = iota
	sortAsc
	sortDesc
)

// Synthetic sort columns next to the raw transaction fields.
const (
	colAmount    = "amt"
	colRule      = "rule"
	colErrors    = "errors"
	colGenerated = "generated"
)

// table derives the visible slice of a tab: filter, sort, then page. All
// three are pure views over the loaded rows; the rows themselves are only
// replaced wholesale by a fetch.
type table struct {
	account model.ImportAccount

	rows    []model.TransactionRow
	fields  []string // observed superset
	columns []string // selected for display

	filter     string
	sortColumn string
	dir        sortDir
	page       int
	cursor     int
}

func newTable(account model.ImportAccount) *table {
	return &table{
		account:    account,
		columns:    append([]string(nil), account.DefaultColumns...),
		sortColumn: account.DateColumn,
		dir:        sortAsc,
		page:       1,
	}
}

func (t *table) setRows(rows []model.TransactionRow) {
	t.rows = rows
	t.fields = model.CollectFields(rows)
	t.clampPage()
}

// toggleSort cycles a column ascending → descending → ascending; activating
// a different column starts it ascending.
func (t *table) toggleSort(column string) {
	if t.sortColumn != column {
		t.sortColumn = column
		t.dir = sortAsc
		return
	}
	if t.dir == sortAsc {
		t.dir = sortDesc
	} else {
		t.dir = sortAsc
	}
}

// pageCount mirrors the original pager: len/size+1, so a row count on a page
// boundary yields a trailing empty page.
func (t *table) pageCount() int {
	return len(filterRows(t.rows, t.filter))/pageSize + 1
}

func (t *table) clampPage() {
	if n := t.pageCount(); t.page > n {
		t.page = n
	}
	if t.page < 1 {
		t.page = 1
	}
}

// visible applies filter, sort and pagination.
func (t *table) visible() []model.TransactionRow {
	rows := filterRows(t.rows, t.filter)
	sortRows(rows, t.account, t.sortColumn, t.dir)
	return paginate(rows, t.page)
}

// filterRows keeps rows whose string-coerced field values contain the filter
// case-insensitively. Rows without a raw transaction always pass.
func filterRows(rows []model.TransactionRow, filter string) []model.TransactionRow {
	if filter == "" {
		return append([]model.TransactionRow(nil), rows...)
	}
	needle := strings.ToLower(filter)
	out := make([]model.TransactionRow, 0, len(rows))
	for _, r := range rows {
		if r.Real == nil {
			out = append(out, r)
			continue
		}
		for k := range r.Real {
			if v, ok := r.Real.Field(k); ok && strings.Contains(strings.ToLower(v), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// sortRows orders rows in place by one column. Rows lacking the compared
// value stay where they are.
func sortRows(rows []model.TransactionRow, account model.ImportAccount, column string, dir sortDir) {
	if dir == sortNone || column == "" {
		return
	}
	sign := 1
	if dir == sortDesc {
		sign = -1
	}
	cmp := func(a, b model.TransactionRow) int {
		return sign * compareRows(a, b, account, column)
	}
	// insertion sort keeps the comparison's zero cases stable
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && cmp(rows[j-1], rows[j]) > 0; j-- {
			rows[j-1], rows[j] = rows[j], rows[j-1]
		}
	}
}

func compareRows(a, b model.TransactionRow, account model.ImportAccount, column string) int {
	switch column {
	case colAmount:
		if a.Real != nil && b.Real != nil {
			va, okA := a.Real.Amount(account.AmountColumns)
			vb, okB := b.Real.Amount(account.AmountColumns)
			if okA && okB {
				return va.Cmp(vb)
			}
		}
		if a.Hledger != nil && b.Hledger != nil {
			va, okA := a.Hledger.Amount(account.ID)
			vb, okB := b.Hledger.Amount(account.ID)
			if okA && okB {
				return va.Quantity.Decimal().Cmp(vb.Quantity.Decimal())
			}
		}
		return 0
	case colRule:
		if a.Rule != nil && b.Rule != nil {
			return compareOrdered(a.Rule.ID, b.Rule.ID)
		}
		return 0
	case colErrors:
		return compareValues(strings.Join(a.Errors, ";"), strings.Join(b.Errors, ";"))
	case colGenerated:
		if a.Hledger != nil && b.Hledger != nil {
			return compareValues(a.Hledger.Date, b.Hledger.Date)
		}
		return 0
	}
	if a.Real == nil || b.Real == nil {
		return 0
	}
	va, okA := a.Real.Field(column)
	vb, okB := b.Real.Field(column)
	if !okA || !okB {
		return 0
	}
	return compareValues(va, vb)
}

// compareValues compares numerically when both sides parse as numbers,
// lexically otherwise.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return compareOrdered(fa, fb)
	}
	return strings.Compare(a, b)
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// paginate slices one fixed-size page out of the rows; out-of-range pages
// are empty.
func paginate(rows []model.TransactionRow, page int) []model.TransactionRow {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// toggleColumn adds or removes a field from the selected display columns.
func (t *table) toggleColumn(field string) {
	for i, c := range t.columns {
		if c == field {
			t.columns = append(t.columns[:i], t.columns[i+1:]...)
			return
		}
	}
	t.columns = append(t.columns, field)
}

func (t *table) hasColumn(field string) bool {
	for _, c := range t.columns {
		if c == field {
			return true
		}
	}
	return false
}

// render draws the current page.
func (t *table) render(width int, showLedger bool) string {
	rows := t.visible()
	if len(rows) == 0 {
		return mutedStyle.Render("Nothing here...")
	}

	headers := []string{"Date", "Amount"}
	cols := []string{t.account.DateColumn, colAmount}
	for _, f := range t.columns {
		headers = append(headers, format.TitleCase(f))
		cols = append(cols, f)
	}
	if showLedger {
		headers = append(headers, "Ledger Entry")
		cols = append(cols, colGenerated)
	}

	cellWidth := width/len(cols) - 3
	if cellWidth < 6 {
		cellWidth = 6
	}

	var b strings.Builder
	for i, h := range headers {
		if cols[i] == t.sortColumn {
			switch t.dir {
			case sortAsc:
				h += " ▲"
			case sortDesc:
				h += " ▼"
			}
		}
		b.WriteString(headerStyle.Render(pad(h, cellWidth)))
		b.WriteString(" | ")
	}
	b.WriteString("\n")

	for i, r := range rows {
		line := make([]string, 0, len(cols))
		for _, c := range cols {
			line = append(line, pad(t.cell(r, c), cellWidth))
		}
		text := strings.Join(line, " | ")
		if i == t.cursor {
			text = selectedStyle.Render(text)
		} else if len(r.Errors) > 0 {
			text = errorStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

func (t *table) cell(r model.TransactionRow, column string) string {
	switch column {
	case t.account.DateColumn:
		if v, ok := r.Real.Field(column); ok {
			return format.Date(v)
		}
		if r.Hledger != nil {
			return format.Date(r.Hledger.Date)
		}
		return ""
	case colAmount:
		if r.Real != nil {
			if d, ok := r.Real.Amount(t.account.AmountColumns); ok {
				cur, _ := r.Real.Field("currency")
				f, _ := d.Float64()
				return format.Currency(f, cur)
			}
		}
		if r.Hledger != nil {
			if amt, ok := r.Hledger.Amount(t.account.ID); ok {
				return format.CurrencyPrec(amt.Quantity.FloatingPoint, amt.Commodity, int(amt.Quantity.DecimalPlaces))
			}
		}
		return ""
	case colGenerated:
		if r.Hledger == nil {
			return ""
		}
		return r.Hledger.Description + " → " + r.Hledger.TargetAccount(t.account.ID)
	}
	v, _ := r.Real.Field(column)
	return v
}

func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
}
