package model

// AlignedData is a time-series payload in uPlot alignment: the first series
// holds unix timestamps, the rest hold one value per timestamp. JSON nulls
// decode to zero.
type AlignedData [][]float64

// Timestamps returns the x series, or nil for an empty payload.
func (d AlignedData) Timestamps() []float64 {
	if len(d) == 0 {
		return nil
	}
	return d[0]
}

// Series returns the y series.
func (d AlignedData) Series() [][]float64 {
	if len(d) < 2 {
		return nil
	}
	return d[1:]
}

// IncomeStatementResponse is the aggregated income statement: aligned
// revenue/expense series plus the top entries per period.
type IncomeStatementResponse struct {
	Data        AlignedData            `json:"data"`
	TopRevenues [][]HledgerTransaction `json:"topRevenues"`
	TopExpenses [][]HledgerTransaction `json:"topExpenses"`
}

// SaveRequest commits pending journal file changes with a message and
// committer identity.
type SaveRequest struct {
	CommitMsg string `json:"commitMsg"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}
