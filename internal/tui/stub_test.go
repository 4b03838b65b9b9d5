package tui

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerdash/ledgerdash/internal/backend"
	"github.com/ledgerdash/ledgerdash/internal/model"
)

// stubBackend implements Backend with per-method hooks and call counters.
// The zero value answers every call with empty payloads.
type stubBackend struct {
	mu    sync.Mutex
	calls map[string]int

	pingFn         func() error
	accountsFn     func() ([]string, error)
	balanceFn      func(account string, bypass bool) (model.BalancesResponse, error)
	transactionsFn func(kind backend.TransactionKind, account string, bypass bool) ([]model.TransactionRow, error)
	generateFn     func(account string, req model.TransactionRequest) (model.HledgerTransaction, error)
	rulesFn        func(account string) ([]model.Rule, error)
	setRuleFn      func(account string, rule model.Rule) (string, error)
	deleteRuleFn   func(id int64) error
}

func (s *stubBackend) count(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[method]++
}

func (s *stubBackend) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *stubBackend) Ping(context.Context) error {
	s.count("Ping")
	if s.pingFn != nil {
		return s.pingFn()
	}
	return nil
}

func (s *stubBackend) Accounts(context.Context) ([]string, error) {
	s.count("Accounts")
	if s.accountsFn != nil {
		return s.accountsFn()
	}
	return nil, nil
}

func (s *stubBackend) Balance(_ context.Context, account string, bypass bool) (model.BalancesResponse, error) {
	s.count("Balance")
	if s.balanceFn != nil {
		return s.balanceFn(account, bypass)
	}
	return model.BalancesResponse{}, nil
}

func (s *stubBackend) Transactions(_ context.Context, kind backend.TransactionKind, account string, bypass bool) ([]model.TransactionRow, error) {
	s.count("Transactions")
	if s.transactionsFn != nil {
		return s.transactionsFn(kind, account, bypass)
	}
	return nil, nil
}

func (s *stubBackend) WriteTransactions(_ context.Context, account string) error {
	s.count("WriteTransactions")
	return nil
}

func (s *stubBackend) GenerateTransaction(_ context.Context, account string, req model.TransactionRequest) (model.HledgerTransaction, error) {
	s.count("GenerateTransaction")
	if s.generateFn != nil {
		return s.generateFn(account, req)
	}
	return model.HledgerTransaction{}, nil
}

func (s *stubBackend) Rules(_ context.Context, account string) ([]model.Rule, error) {
	s.count("Rules")
	if s.rulesFn != nil {
		return s.rulesFn(account)
	}
	return nil, nil
}

func (s *stubBackend) SetRule(_ context.Context, account string, rule model.Rule) (string, error) {
	s.count("SetRule")
	if s.setRuleFn != nil {
		return s.setRuleFn(account, rule)
	}
	return "", nil
}

func (s *stubBackend) DeleteRule(_ context.Context, id int64) error {
	s.count("DeleteRule")
	if s.deleteRuleFn != nil {
		return s.deleteRuleFn(id)
	}
	return nil
}

func (s *stubBackend) IncomeStatement(context.Context, time.Time, time.Time) (model.IncomeStatementResponse, error) {
	s.count("IncomeStatement")
	return model.IncomeStatementResponse{}, nil
}

func (s *stubBackend) NetWorth(context.Context, time.Time) (model.AlignedData, error) {
	s.count("NetWorth")
	return model.AlignedData{}, nil
}

func (s *stubBackend) DirtyJournalFiles(context.Context) ([]string, error) {
	s.count("DirtyJournalFiles")
	return nil, nil
}

func (s *stubBackend) SaveJournal(context.Context, model.SaveRequest) error {
	s.count("SaveJournal")
	return nil
}
