// Package session carries the account scope a mounted view works against:
// the active import account and the ledger account names known to the
// backend. The scope is built when a view mounts and replaced wholesale on
// refetch; views receive it explicitly instead of reading ambient state.
package session

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ledgerdash/ledgerdash/internal/model"
)

// Scope is one account-scoped view's working set.
type Scope struct {
	Import   model.ImportAccount
	accounts []string
}

// NewScope builds a scope for an import account.
func NewScope(importAccount model.ImportAccount) *Scope {
	return &Scope{Import: importAccount}
}

// SetAccounts replaces the ledger account list.
func (s *Scope) SetAccounts(names []string) {
	s.accounts = append([]string(nil), names...)
}

// Accounts returns the known ledger account names.
func (s *Scope) Accounts() []string {
	return s.accounts
}

// Suggest ranks ledger accounts against a query for the account pickers.
// Substring matches come first, ordered by position; the rest are ordered by
// edit distance against the final path segment.
func (s *Scope) Suggest(query string, limit int) []string {
	if query == "" {
		out := append([]string(nil), s.accounts...)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return out
	}
	q := strings.ToLower(query)
	type ranked struct {
		name string
		pos  int
		dist int
	}
	var hits []ranked
	for _, name := range s.accounts {
		lower := strings.ToLower(name)
		pos := strings.Index(lower, q)
		dist := 0
		if pos < 0 {
			seg := lower
			if i := strings.LastIndex(lower, ":"); i >= 0 {
				seg = lower[i+1:]
			}
			dist = levenshtein.ComputeDistance(q, seg)
			if dist > len(q) {
				continue
			}
		}
		hits = append(hits, ranked{name, pos, dist})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		aSub, bSub := a.pos >= 0, b.pos >= 0
		if aSub != bSub {
			return aSub
		}
		if aSub {
			if a.pos != b.pos {
				return a.pos < b.pos
			}
			return a.name < b.name
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.name < b.name
	})
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
