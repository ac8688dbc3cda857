package book

import (
	"testing"

	"asdgest/internal/core"
)

func TestTablesExcludeBlobs(t *testing.T) {
	b := New()
	r, _, err := b.PostReceipt(ReceiptInput{Data: "10/01/2024", Intestatario: "Mario Rossi", Importo: core.MustParseCents("120.00")})
	if err != nil {
		t.Fatal(err)
	}
	b.Receipts[0].PDF = []byte("%PDF-fake")
	_ = r

	for _, tab := range []core.Table{b.ReceiptsTable(), b.PrimaNotaTable()} {
		if tab.Col("PDF") >= 0 || tab.Col("Documento") >= 0 {
			t.Fatalf("blob column leaked into table: %v", tab.Columns)
		}
	}
	rt := b.ReceiptsTable()
	if rt.Cell(0, "Importo") != "120.00" || rt.Cell(0, "Data") != "10/01/2024" {
		t.Fatalf("unexpected cells: %+v", rt.Rows[0])
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	b := New()
	_, _, _ = b.PostReceipt(ReceiptInput{Data: "10/01/2024", Intestatario: "Mario Rossi", TipoVoce: "Quota associativa annuale", Importo: core.MustParseCents("120.00"), MetodoPagamento: "Bonifico"})
	_, _ = b.PostExpense(ExpenseInput{Data: "15/02/2024", Beneficiario: "Decathlon", Importo: core.MustParseCents("45.50")})
	_ = b.AddMember(core.Member{Nome: "Anna", Cognome: "Verdi", DataIscrizione: "01/09/2023", Attivo: true})

	ricevute := b.ReceiptsTable()
	primaNota := b.PrimaNotaTable()
	soci := b.MembersTable()

	restored := New()
	if err := restored.Restore(&ricevute, &primaNota, &soci); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(restored.Receipts) != 1 || len(restored.Ledger) != 2 || len(restored.Members) != 1 {
		t.Fatalf("unexpected restored sizes: %d/%d/%d", len(restored.Receipts), len(restored.Ledger), len(restored.Members))
	}
	if !restored.PrimaNotaTable().Equal(primaNota) {
		t.Fatalf("prima nota did not survive the round trip")
	}
	if !restored.ReceiptsTable().Equal(ricevute) {
		t.Fatalf("receipts did not survive the round trip")
	}
	if !restored.Members[0].Attivo {
		t.Fatalf("member flag lost")
	}
	// Counter resumes after the highest numeric receipt number.
	if restored.NextNumero() != "2" {
		t.Fatalf("expected counter resumed at 2, got %q", restored.NextNumero())
	}
}

func TestRestoreNilTables(t *testing.T) {
	b := New()
	if err := b.Restore(nil, nil, nil); err != nil {
		t.Fatalf("restore of absent state should succeed: %v", err)
	}
	if len(b.Receipts) != 0 || len(b.Ledger) != 0 {
		t.Fatalf("unexpected state: %+v", b)
	}
}

func TestRestoreBadAmount(t *testing.T) {
	tab := core.NewTable(ColonnePrimaNota...)
	_ = tab.AppendRow("10/01/2024", "1", "X", "Quota", "", "causale", "abc", "0.00", "")
	b := New()
	if err := b.Restore(nil, &tab, nil); err == nil {
		t.Fatalf("expected error for malformed amount")
	}
}

func TestRestoreKeepsUnparseableDates(t *testing.T) {
	tab := core.NewTable(ColonnePrimaNota...)
	_ = tab.AppendRow("data ignota", "1", "X", "Quota", "", "causale", "10.00", "0.00", "")
	b := New()
	if err := b.Restore(nil, &tab, nil); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if b.Ledger[0].Data != "data ignota" {
		t.Fatalf("raw date text not preserved: %q", b.Ledger[0].Data)
	}
}
