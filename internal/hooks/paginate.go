// Package hooks holds the view-state components behind the ledger screens.
// Each hook loads from storage, owns the derived list state, and rebuilds it
// in full on every refresh.
package hooks

import (
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// FilterByAccount keeps transactions whose source or counterpart account
// is accountID. An empty accountID keeps everything.
func FilterByAccount(txns []model.Transaction, accountID string) []model.Transaction {
	if accountID == "" {
		return txns
	}

	filtered := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Touches(accountID) {
			filtered = append(filtered, txn)
		}
	}
	return filtered
}

// Paginate returns the 1-based page of txns. A page past the end is empty.
func Paginate(txns []model.Transaction, page, pageSize int) []model.Transaction {
	req := service.PageRequest{Page: page, PageSize: pageSize}.Normalize()

	// Compare page numbers first; the row offset of a huge page overflows.
	if req.Page > PageCount(len(txns), req.PageSize) {
		return []model.Transaction{}
	}
	start := req.Offset()
	end := start + min(req.PageSize, len(txns)-start)

	return txns[start:end]
}

// PageCount is the number of pages needed to show total rows.
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize < 1 {
		pageSize = service.DefaultPageSize
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// HasNextPage reports whether rows remain after the given page.
func HasNextPage(page, pageSize, total int) bool {
	if total <= 0 {
		return false
	}
	req := service.PageRequest{Page: page, PageSize: pageSize}.Normalize()
	// The last row sits on page (total-1)/PageSize + 1.
	return req.Page <= (total-1)/req.PageSize
}
