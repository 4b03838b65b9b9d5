package tui

import (
	"context"
	"time"

	"github.com/ledgerdash/ledgerdash/internal/backend"
	"github.com/ledgerdash/ledgerdash/internal/model"
)

// Backend is the slice of the import service the views call. *backend.Client
// satisfies it; tests substitute stubs.
type Backend interface {
	Ping(ctx context.Context) error
	Accounts(ctx context.Context) ([]string, error)
	Balance(ctx context.Context, account string, bypassCache bool) (model.BalancesResponse, error)
	Transactions(ctx context.Context, kind backend.TransactionKind, account string, bypassCache bool) ([]model.TransactionRow, error)
	WriteTransactions(ctx context.Context, account string) error
	GenerateTransaction(ctx context.Context, account string, req model.TransactionRequest) (model.HledgerTransaction, error)
	Rules(ctx context.Context, account string) ([]model.Rule, error)
	SetRule(ctx context.Context, account string, rule model.Rule) (string, error)
	DeleteRule(ctx context.Context, id int64) error
	IncomeStatement(ctx context.Context, from, to time.Time) (model.IncomeStatementResponse, error)
	NetWorth(ctx context.Context, from time.Time) (model.AlignedData, error)
	DirtyJournalFiles(ctx context.Context) ([]string, error)
	SaveJournal(ctx context.Context, req model.SaveRequest) error
}
