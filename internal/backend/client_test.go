package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerdash/ledgerdash/internal/model"
)

func TestClientAuthHeader(t *testing.T) {
	t.Parallel()

	var gotUser, gotPass string
	var gotOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token", nil)
	require.NoError(t, c.Ping(context.Background()))
	require.True(t, gotOK)
	require.Equal(t, "ledgerdash", gotUser)
	require.Equal(t, "secret-token", gotPass)
}

func TestClientNoAuthWithoutToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		require.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, "", nil).Ping(context.Background()))
}

func TestClientBypassCacheQuery(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]model.TransactionRow{})
	}))
	defer srv.Close()

	c := New(srv.URL, "", nil)
	ctx := context.Background()

	_, err := c.Transactions(ctx, Unmatched, "ing", true)
	require.NoError(t, err)
	require.Equal(t, "/transactions/unmatched/ing", gotPath)
	require.Equal(t, "bypass_cache=true", gotQuery)

	_, err = c.Transactions(ctx, Existing, "ing", false)
	require.NoError(t, err)
	require.Equal(t, "/transactions/existing/ing", gotPath)
	require.Empty(t, gotQuery)
}

func TestClientStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := New(srv.URL, "bad", nil).Ping(context.Background())
	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.Code)

	err = New(srv.URL, "bad", nil).DeleteRule(context.Background(), 1)
	require.ErrorAs(t, err, &statusErr)
}

func TestClientTransactionsDecode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"real_transaction": {"id": "1", "description": "coffee", "amount": -3.2}},
			{"real_transaction": {"id": "2"}, "errors": ["amount mismatch"]}
		]`))
	}))
	defer srv.Close()

	rows, err := New(srv.URL, "", nil).Transactions(context.Background(), Existing, "n26", false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "1", rows[0].Key())
	require.Equal(t, []string{"amount mismatch"}, rows[1].Errors)
}

func TestClientSetRuleValidation(t *testing.T) {
	t.Parallel()

	t.Run("validation message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/rules/ing", r.URL.Path)
			_ = json.NewEncoder(w).Encode("invalid regex")
		}))
		defer srv.Close()

		msg, err := New(srv.URL, "", nil).SetRule(context.Background(), "ing", model.NewRule())
		require.NoError(t, err)
		require.Equal(t, "invalid regex", msg)
	})

	t.Run("validation message on a 400", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode("matchFieldRegex: invalid regex")
		}))
		defer srv.Close()

		// the backend rejects the rule with a 400 whose body carries the
		// complaint; the caller still gets the message, not a status error
		msg, err := New(srv.URL, "", nil).SetRule(context.Background(), "ing", model.NewRule())
		require.NoError(t, err)
		require.Equal(t, "matchFieldRegex: invalid regex", msg)
	})

	t.Run("empty body is a clean save", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		msg, err := New(srv.URL, "", nil).SetRule(context.Background(), "ing", model.NewRule())
		require.NoError(t, err)
		require.Empty(t, msg)
	})
}

func TestClientDeleteRule(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, "", nil).DeleteRule(context.Background(), 7))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/rule/7", gotPath)
}

func TestClientReportQueries(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		switch r.URL.Path {
		case "/reports/income_statement":
			_ = json.NewEncoder(w).Encode(model.IncomeStatementResponse{})
		default:
			_ = json.NewEncoder(w).Encode(model.AlignedData{})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "", nil)
	from := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := c.IncomeStatement(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, "/reports/income_statement", gotPath)
	require.Equal(t, []string{"2021-01-01"}, gotQuery["from"])
	require.Equal(t, []string{"2021-12-31"}, gotQuery["to"])

	_, err = c.NetWorth(context.Background(), from)
	require.NoError(t, err)
	require.Equal(t, "/reports/net_worth", gotPath)
}

func TestClientWriteTransactions(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, "", nil).WriteTransactions(context.Background(), "ib"))
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/transactions/write/ib", gotPath)
}
