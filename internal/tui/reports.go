package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/barchart"
	"github.com/ledgerdash/ledgerdash/internal/format"
	"github.com/ledgerdash/ledgerdash/internal/model"
)

type reportKind int

const (
	reportIncome reportKind = iota
	reportNetWorth
)

// reportsView draws the income statement and net worth charts. The bar
// geometry comes from barchart; this view only paints cells and resolves the
// cursor through the chart's hit index.
type reportsView struct {
	ctx context.Context
	api Backend

	kind      reportKind
	currency  string
	fromInput textinput.Model
	editing   bool
	from      time.Time
	gen       int
	loading   bool
	loadErr   error

	income   model.IncomeStatementResponse
	netWorth model.AlignedData

	cursorX int
	cursorY int
	hit     *barchart.Rect
	chart   *barchart.Chart
	chartW  int
	chartH  int
}

func newReportsView(ctx context.Context, api Backend, currency string) *reportsView {
	if currency == "" {
		currency = "EUR"
	}
	from := time.Now().AddDate(-1, 0, 0)
	input := textinput.New()
	input.Placeholder = "2006-01-02"
	input.CharLimit = 10
	input.SetValue(from.Format("2006-01-02"))
	return &reportsView{
		ctx:       ctx,
		api:       api,
		currency:  currency,
		fromInput: input,
		from:      from,
	}
}

func (v *reportsView) mount() tea.Cmd {
	return v.fetch()
}

func (v *reportsView) fetch() tea.Cmd {
	v.gen++
	v.loading = true
	v.loadErr = nil
	gen, kind, from := v.gen, v.kind, v.from
	ctx, api := v.ctx, v.api
	if kind == reportNetWorth {
		return func() tea.Msg {
			data, err := api.NetWorth(ctx, from)
			return netWorthMsg{gen: gen, data: data, err: err}
		}
	}
	to := time.Now()
	return func() tea.Msg {
		resp, err := api.IncomeStatement(ctx, from, to)
		return incomeStatementMsg{gen: gen, resp: resp, err: err}
	}
}

func (v *reportsView) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case incomeStatementMsg:
		if m.gen != v.gen || v.kind != reportIncome {
			return nil
		}
		v.loading = false
		if m.err != nil {
			v.loadErr = m.err
			return report(fmt.Errorf("couldn't fetch income statement: %w", m.err))
		}
		v.income = m.resp
		v.chart = nil
		return nil

	case netWorthMsg:
		if m.gen != v.gen || v.kind != reportNetWorth {
			return nil
		}
		v.loading = false
		if m.err != nil {
			v.loadErr = m.err
			return report(fmt.Errorf("couldn't fetch net worth: %w", m.err))
		}
		v.netWorth = m.data
		v.chart = nil
		return nil

	case tea.KeyMsg:
		return v.handleKey(m)
	}
	return nil
}

func (v *reportsView) data() model.AlignedData {
	if v.kind == reportNetWorth {
		return v.netWorth
	}
	return v.income.Data
}

func (v *reportsView) handleKey(m tea.KeyMsg) tea.Cmd {
	if v.editing {
		switch m.String() {
		case "enter":
			v.editing = false
			v.fromInput.Blur()
			if t, err := time.Parse("2006-01-02", v.fromInput.Value()); err == nil {
				v.from = t
			} else {
				// unparsable input falls back to the default window
				v.from = time.Now().AddDate(-1, 0, 0)
				v.fromInput.SetValue(v.from.Format("2006-01-02"))
			}
			return v.fetch()
		case "esc":
			v.editing = false
			v.fromInput.Blur()
			v.fromInput.SetValue(v.from.Format("2006-01-02"))
		default:
			var cmd tea.Cmd
			v.fromInput, cmd = v.fromInput.Update(m)
			return cmd
		}
		return nil
	}

	switch m.String() {
	case "tab", "i", "n":
		if v.kind == reportIncome {
			v.kind = reportNetWorth
		} else {
			v.kind = reportIncome
		}
		v.chart = nil
		return v.fetch()
	case "f":
		v.editing = true
		v.fromInput.Focus()
		return textinput.Blink
	case "r":
		return v.fetch()
	case "left", "h":
		v.moveCursor(-1, 0)
	case "right", "l":
		v.moveCursor(1, 0)
	case "up", "k":
		v.moveCursor(0, -1)
	case "down", "j":
		v.moveCursor(0, 1)
	}
	return nil
}

// moveCursor shifts the chart cursor one cell and re-resolves the bar under
// it.
func (v *reportsView) moveCursor(dx, dy int) {
	v.cursorX = clamp(v.cursorX+dx, 0, v.chartW-1)
	v.cursorY = clamp(v.cursorY+dy, 0, v.chartH-1)
	v.updateHit()
}

// updateHit asks the chart's spatial index which bar sits under the cursor.
func (v *reportsView) updateHit() {
	v.hit = nil
	if v.chart == nil {
		return
	}
	if r, ok := v.chart.At(v.cursorX, v.cursorY); ok {
		v.hit = &r
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// layout recomputes the bar geometry when the draw area or data changes. A
// rebuild parks the cursor on the first bar so the detail pane starts
// populated.
func (v *reportsView) layout(w, h int) {
	if v.chart != nil && v.chartW == w && v.chartH == h {
		return
	}
	series := v.data().Series()
	min, max := 0.0, 0.0
	for _, s := range series {
		for _, val := range s {
			if math.IsNaN(val) {
				continue
			}
			if val < min {
				min = val
			}
			if val > max {
				max = val
			}
		}
	}
	cfg := barchart.DefaultConfig()
	cfg.GroupWidth = 0.8
	rebuilt := v.chart == nil
	v.chart = barchart.Layout(cfg, series, w, h, min, max)
	v.chartW, v.chartH = w, h
	if rebuilt && len(v.chart.Rects) > 0 {
		r := v.chart.Rects[0]
		v.cursorX, v.cursorY = r.X+r.W/2, r.Y+r.H/2
	}
	v.cursorX = clamp(v.cursorX, 0, w-1)
	v.cursorY = clamp(v.cursorY, 0, h-1)
	v.updateHit()
}

func (v *reportsView) view(width, height int) string {
	var b strings.Builder
	title := "Income statement"
	if v.kind == reportNetWorth {
		title = "Net worth"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if v.editing {
		b.WriteString("From: " + v.fromInput.View())
	} else {
		b.WriteString(mutedStyle.Render("From: " + v.from.Format("2006-01-02") + "  (f to change)"))
	}
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(mutedStyle.Render("Loading..."))
	case v.loadErr != nil:
		b.WriteString(errorStyle.Render("Failed to fetch: " + v.loadErr.Error()))
	case len(v.data().Series()) == 0:
		b.WriteString(mutedStyle.Render("No data for this period."))
	default:
		chartW := width - 2
		chartH := height - 12
		if chartH < 5 {
			chartH = 5
		}
		v.layout(chartW, chartH)
		b.WriteString(v.renderChart(chartW, chartH))
		b.WriteString("\n")
		b.WriteString(v.renderCursorDetail())
	}
	b.WriteString("\n" + mutedStyle.Render("[tab] income/net worth  [arrows] move cursor  [f] from date  [r] reload  [esc] back  [q] quit"))
	return b.String()
}

// renderChart rasterizes the bar rectangles into a colored cell grid.
func (v *reportsView) renderChart(w, h int) string {
	grid := make([][]int, h)
	for y := range grid {
		grid[y] = make([]int, w)
		for x := range grid[y] {
			grid[y][x] = -1
		}
	}
	for _, r := range v.chart.Rects {
		for y := r.Y; y < r.Y+r.H && y < h; y++ {
			if y < 0 {
				continue
			}
			for x := r.X; x < r.X+r.W && x < w; x++ {
				if x >= 0 {
					grid[y][x] = r.Series
				}
			}
		}
	}

	selected := v.selectedRect()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := grid[y][x]
			if si < 0 {
				if x == v.cursorX && y == v.cursorY {
					b.WriteString("+")
				} else {
					b.WriteString(" ")
				}
				continue
			}
			cell := "█"
			if _, sel := selected[point{x, y}]; sel {
				cell = "▓"
			}
			b.WriteString(seriesStyles[si%len(seriesStyles)].Render(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

type point struct{ x, y int }

// selectedRect marks the cells of the bar under the cursor.
func (v *reportsView) selectedRect() map[point]struct{} {
	sel := map[point]struct{}{}
	if v.hit == nil {
		return sel
	}
	for y := v.hit.Y; y < v.hit.Y+v.hit.H; y++ {
		for x := v.hit.X; x < v.hit.X+v.hit.W; x++ {
			sel[point{x, y}] = struct{}{}
		}
	}
	return sel
}

func (v *reportsView) renderCursorDetail() string {
	if v.hit == nil {
		return mutedStyle.Render("No bar under cursor.")
	}
	group := v.hit.Group
	ts := v.data().Timestamps()
	if group >= len(ts) {
		return ""
	}
	var b strings.Builder
	when := time.Unix(int64(ts[group]), 0).UTC()
	b.WriteString(headerStyle.Render(when.Format("January 2006")))
	b.WriteString("\n")
	names := v.seriesNames()
	for si, s := range v.data().Series() {
		if group >= len(s) {
			continue
		}
		style := seriesStyles[si%len(seriesStyles)]
		marker := "  "
		if si == v.hit.Series {
			marker = "▶ "
		}
		b.WriteString(marker + style.Render("█ "+names[si]))
		b.WriteString(": " + format.Currency(s[group], v.currency))
		b.WriteString("\n")
	}
	if v.kind == reportIncome {
		b.WriteString(v.renderTop("Top revenues", v.income.TopRevenues, group))
		b.WriteString(v.renderTop("Top expenses", v.income.TopExpenses, group))
	}
	return b.String()
}

func (v *reportsView) seriesNames() []string {
	names := []string{"Revenue", "Expenses"}
	if v.kind == reportNetWorth {
		names = []string{"Assets", "Debts", "Net worth"}
	}
	for len(names) < len(v.data().Series()) {
		names = append(names, fmt.Sprintf("Series %d", len(names)+1))
	}
	return names
}

func (v *reportsView) renderTop(label string, periods [][]model.HledgerTransaction, group int) string {
	if group >= len(periods) || len(periods[group]) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(mutedStyle.Render(label) + "\n")
	for i, t := range periods[group] {
		if i >= 3 {
			break
		}
		b.WriteString("  " + format.Date(t.Date) + " " + t.Description + "\n")
	}
	return b.String()
}
