package book

import (
	"sort"
	"time"

	"asdgest/internal/core"
)

// Filter selects a prima nota view. Zero date bounds mean unbounded; empty
// categorical fields mean "no constraint". All predicates are conjunctive.
type Filter struct {
	Da              core.Date
	A               core.Date
	TipoVoce        string
	MetodoPagamento string
	CentroCosto     string
}

// Totals summarizes a filtered view. Saldo is always Entrate minus Uscite.
type Totals struct {
	Entrate core.Money
	Uscite  core.Money
	Saldo   core.Money
}

// Apply returns the ledger rows matching the filter, preserving insertion
// order. With date bounds set, rows whose date does not parse are excluded;
// with no bounds the date is not consulted at all, so an unconstrained filter
// returns the ledger unchanged.
func Apply(ledger []core.LedgerEntry, f Filter) []core.LedgerEntry {
	var da, a time.Time
	haveDa := !f.Da.IsZero()
	haveA := !f.A.IsZero()
	if haveDa {
		t, err := f.Da.Time()
		if err != nil {
			return nil
		}
		da = t
	}
	if haveA {
		t, err := f.A.Time()
		if err != nil {
			return nil
		}
		a = t
	}

	out := make([]core.LedgerEntry, 0, len(ledger))
	for _, e := range ledger {
		if haveDa || haveA {
			d, err := e.Data.Time()
			if err != nil {
				continue
			}
			if haveDa && d.Before(da) {
				continue
			}
			if haveA && d.After(a) {
				continue
			}
		}
		if f.TipoVoce != "" && e.TipoVoce != f.TipoVoce {
			continue
		}
		if f.MetodoPagamento != "" && e.MetodoPagamento != f.MetodoPagamento {
			continue
		}
		if f.CentroCosto != "" && e.CentroCosto != f.CentroCosto {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ComputeTotals sums the view. An empty view yields all-zero totals.
func ComputeTotals(view []core.LedgerEntry) Totals {
	var t Totals
	for _, e := range view {
		t.Entrate.Cents += e.Entrata.Cents
		t.Uscite.Cents += e.Uscita.Cents
	}
	t.Saldo.Cents = t.Entrate.Cents - t.Uscite.Cents
	return t
}

// FilterValues lists the distinct non-empty values of a categorical column,
// sorted, for populating filter choices.
func FilterValues(ledger []core.LedgerEntry, pick func(core.LedgerEntry) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range ledger {
		v := pick(e)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
