package book

import (
	"sort"

	"asdgest/internal/core"
)

// KeyAmount is one aggregation result row.
type KeyAmount struct {
	Key    string
	Amount core.Money
}

// EntratePerMese sums inflows per "2006-01" month bucket, ascending by month.
// Rows whose date does not parse contribute to no bucket; they remain visible
// in the raw ledger. Outflows are intentionally not aggregated, mirroring the
// receipts-focused dashboard.
func EntratePerMese(ledger []core.LedgerEntry) []KeyAmount {
	sums := map[string]int64{}
	for _, e := range ledger {
		ym, ok := e.Data.YearMonth()
		if !ok {
			continue
		}
		sums[ym] += e.Entrata.Cents
	}
	out := collect(sums)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// EntratePerTipo sums inflows per category tag, descending by sum.
func EntratePerTipo(ledger []core.LedgerEntry) []KeyAmount {
	return byDescendingSum(ledger, func(e core.LedgerEntry) string { return e.TipoVoce })
}

// EntratePerCentro sums inflows per cost center, descending by sum.
func EntratePerCentro(ledger []core.LedgerEntry) []KeyAmount {
	return byDescendingSum(ledger, func(e core.LedgerEntry) string { return e.CentroCosto })
}

func byDescendingSum(ledger []core.LedgerEntry, key func(core.LedgerEntry) string) []KeyAmount {
	sums := map[string]int64{}
	for _, e := range ledger {
		sums[key(e)] += e.Entrata.Cents
	}
	out := collect(sums)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func collect(sums map[string]int64) []KeyAmount {
	if len(sums) == 0 {
		return []KeyAmount{}
	}
	out := make([]KeyAmount, 0, len(sums))
	for k, v := range sums {
		out = append(out, KeyAmount{Key: k, Amount: core.Money{Cents: v}})
	}
	return out
}

// AggregateTable renders a breakdown as a two-column table for report sheets.
func AggregateTable(keyColumn string, rows []KeyAmount) core.Table {
	t := core.NewTable(keyColumn, "Entrata")
	for _, r := range rows {
		_ = t.AppendRow(r.Key, r.Amount.String())
	}
	return t
}

// LedgerForYear returns the entries whose date parses and falls in the given
// year, for the annual report detail sheet.
func LedgerForYear(ledger []core.LedgerEntry, anno int) []core.LedgerEntry {
	var out []core.LedgerEntry
	for _, e := range ledger {
		if y, ok := e.Data.Year(); ok && y == anno {
			out = append(out, e)
		}
	}
	return out
}

// Years lists the distinct parseable years present in the ledger, ascending.
func Years(ledger []core.LedgerEntry) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, e := range ledger {
		if y, ok := e.Data.Year(); ok {
			if _, dup := seen[y]; !dup {
				seen[y] = struct{}{}
				out = append(out, y)
			}
		}
	}
	sort.Ints(out)
	return out
}
