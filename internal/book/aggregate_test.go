package book

import (
	"testing"

	"asdgest/internal/core"
)

func TestEntratePerMese(t *testing.T) {
	ledger := []core.LedgerEntry{
		{Data: "15/02/2024", Entrata: core.MustParseCents("50.00")},
		{Data: "10/01/2024", Entrata: core.MustParseCents("120.00")},
		{Data: "20/01/2024", Entrata: core.MustParseCents("30.00")},
		{Data: "non valida", Entrata: core.MustParseCents("999.00")},
	}
	rows := EntratePerMese(ledger)
	if len(rows) != 2 {
		t.Fatalf("expected 2 month buckets, got %d", len(rows))
	}
	if rows[0].Key != "2024-01" || rows[0].Amount.Cents != 15000 {
		t.Fatalf("unexpected first bucket: %+v", rows[0])
	}
	if rows[1].Key != "2024-02" || rows[1].Amount.Cents != 5000 {
		t.Fatalf("unexpected second bucket: %+v", rows[1])
	}
}

func TestEntratePerTipoSumsAndOrder(t *testing.T) {
	ledger := []core.LedgerEntry{
		{Data: "10/01/2024", TipoVoce: "Quota associativa annuale", Entrata: core.MustParseCents("120.00")},
		{Data: "11/01/2024", TipoVoce: "Erogazione liberale", Entrata: core.MustParseCents("50.00")},
		{Data: "12/01/2024", TipoVoce: "Quota associativa annuale", Entrata: core.MustParseCents("120.00")},
		{Data: "13/01/2024", TipoVoce: core.TipoVoceUscita, Uscita: core.MustParseCents("40.00")},
	}
	rows := EntratePerTipo(ledger)
	if len(rows) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(rows))
	}
	if rows[0].Key != "Quota associativa annuale" || rows[0].Amount.Cents != 24000 {
		t.Fatalf("unexpected top category: %+v", rows[0])
	}
	if rows[1].Key != "Erogazione liberale" || rows[1].Amount.Cents != 5000 {
		t.Fatalf("unexpected second category: %+v", rows[1])
	}
	// The outflow-only category aggregates to zero inflow and sorts last.
	if rows[2].Key != core.TipoVoceUscita || rows[2].Amount.Cents != 0 {
		t.Fatalf("unexpected last category: %+v", rows[2])
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Amount.Cents > rows[i-1].Amount.Cents {
			t.Fatalf("rows not sorted by descending sum at %d", i)
		}
	}
}

func TestEntratePerCentro(t *testing.T) {
	ledger := []core.LedgerEntry{
		{Data: "10/01/2024", CentroCosto: "Ginnastica", Entrata: core.MustParseCents("10.00")},
		{Data: "11/01/2024", CentroCosto: "Calcio U10", Entrata: core.MustParseCents("200.00")},
	}
	rows := EntratePerCentro(ledger)
	if rows[0].Key != "Calcio U10" || rows[1].Key != "Ginnastica" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestAggregateEmptyLedger(t *testing.T) {
	if rows := EntratePerMese(nil); len(rows) != 0 {
		t.Fatalf("expected empty result, got %+v", rows)
	}
	if rows := EntratePerTipo([]core.LedgerEntry{}); len(rows) != 0 {
		t.Fatalf("expected empty result, got %+v", rows)
	}
}

func TestLedgerForYearAndYears(t *testing.T) {
	ledger := []core.LedgerEntry{
		{Data: "10/01/2024", Entrata: core.MustParseCents("1.00")},
		{Data: "10/01/2023", Entrata: core.MustParseCents("2.00")},
		{Data: "boh", Entrata: core.MustParseCents("3.00")},
	}
	if got := Years(ledger); len(got) != 2 || got[0] != 2023 || got[1] != 2024 {
		t.Fatalf("unexpected years: %v", got)
	}
	slice := LedgerForYear(ledger, 2024)
	if len(slice) != 1 || slice[0].Data != "10/01/2024" {
		t.Fatalf("unexpected year slice: %+v", slice)
	}
}

func TestAggregateTable(t *testing.T) {
	tab := AggregateTable("TipoVoce", []KeyAmount{{Key: "Quota", Amount: core.MustParseCents("10.00")}})
	if len(tab.Columns) != 2 || tab.Columns[0] != "TipoVoce" || tab.Columns[1] != "Entrata" {
		t.Fatalf("unexpected header: %v", tab.Columns)
	}
	if tab.Cell(0, "Entrata") != "10.00" {
		t.Fatalf("unexpected cell: %q", tab.Cell(0, "Entrata"))
	}
}
