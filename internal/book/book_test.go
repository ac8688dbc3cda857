package book

import (
	"errors"
	"testing"

	"asdgest/internal/core"
)

func TestPostReceiptAppendsOneOfEach(t *testing.T) {
	b := New()
	r, entry, err := b.PostReceipt(ReceiptInput{
		Data:         "10/01/2024",
		Intestatario: "Mario Rossi",
		TipoVoce:     "Quota associativa annuale",
		Importo:      core.MustParseCents("120.00"),
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if len(b.Receipts) != 1 || len(b.Ledger) != 1 {
		t.Fatalf("expected 1 receipt and 1 ledger entry, got %d/%d", len(b.Receipts), len(b.Ledger))
	}
	if r.Numero != "1" {
		t.Fatalf("expected receipt number 1, got %q", r.Numero)
	}
	if entry.Entrata.Cents != 12000 || entry.Uscita.Cents != 0 {
		t.Fatalf("expected Entrata 120.00 / Uscita 0.00, got %s/%s", entry.Entrata, entry.Uscita)
	}
	if entry.TipoVoce != "Quota associativa annuale" {
		t.Fatalf("unexpected TipoVoce %q", entry.TipoVoce)
	}
	if b.NextNumero() != "2" {
		t.Fatalf("expected next number 2, got %q", b.NextNumero())
	}
	// Causale is defaulted from the category lookup.
	if r.Causale != "Quota associativa annuale stagione sportiva" {
		t.Fatalf("unexpected causale %q", r.Causale)
	}
}

func TestPostReceiptValidation(t *testing.T) {
	cases := []ReceiptInput{
		{Data: "10/01/2024", Intestatario: "", Importo: core.MustParseCents("10.00")},
		{Data: "10/01/2024", Intestatario: "   ", Importo: core.MustParseCents("10.00")},
		{Data: "10/01/2024", Intestatario: "Mario Rossi"},
		{Data: "not a date", Intestatario: "Mario Rossi", Importo: core.MustParseCents("10.00")},
	}
	for i, in := range cases {
		b := New()
		_, _, err := b.PostReceipt(in)
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
		if len(b.Receipts) != 0 || len(b.Ledger) != 0 {
			t.Fatalf("case %d mutated state on invalid input", i)
		}
		if b.NextNumero() != "1" {
			t.Fatalf("case %d advanced the counter on invalid input", i)
		}
	}
}

func TestPostReceiptQuickPickTemplate(t *testing.T) {
	b := New()
	r, entry, err := b.PostReceipt(ReceiptInput{
		Data:         "05/03/2024",
		Intestatario: "Lucia Bianchi",
		TipoVoce:     "Altro", // overridden by the template
		Voce:         "Contributo centro estivo",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if r.TipoVoce != "Contributo associativo" {
		t.Fatalf("template should override TipoVoce, got %q", r.TipoVoce)
	}
	if entry.Entrata.Cents != 15000 {
		t.Fatalf("template should preset the amount, got %s", entry.Entrata)
	}
	if r.Causale != "Contributo associativo per centro estivo" {
		t.Fatalf("template should preset the causale, got %q", r.Causale)
	}
}

func TestPostReceiptExplicitAmountWinsOverTemplate(t *testing.T) {
	b := New()
	r, _, err := b.PostReceipt(ReceiptInput{
		Data:         "05/03/2024",
		Intestatario: "Lucia Bianchi",
		Voce:         "Erogazione liberale standard",
		Importo:      core.MustParseCents("75.00"),
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if r.Importo.Cents != 7500 {
		t.Fatalf("explicit amount should win, got %s", r.Importo)
	}
}

func TestPostReceiptCausaleFallback(t *testing.T) {
	b := New()
	r, _, err := b.PostReceipt(ReceiptInput{
		Data:         "10/01/2024",
		Intestatario: "Mario Rossi",
		TipoVoce:     "Altro",
		Importo:      core.MustParseCents("10.00"),
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if r.Causale != core.CausaleFallback {
		t.Fatalf("expected fallback causale, got %q", r.Causale)
	}
}

func TestPostReceiptUserEditedNumero(t *testing.T) {
	b := New()
	r, _, err := b.PostReceipt(ReceiptInput{
		Numero:       "2024/007",
		Data:         "10/01/2024",
		Intestatario: "Mario Rossi",
		Importo:      core.MustParseCents("10.00"),
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if r.Numero != "2024/007" {
		t.Fatalf("expected edited number kept, got %q", r.Numero)
	}
	// The counter still advances.
	if b.NextNumero() != "2" {
		t.Fatalf("expected counter to advance, got %q", b.NextNumero())
	}
}

func TestPostExpense(t *testing.T) {
	b := New()
	entry, err := b.PostExpense(ExpenseInput{
		Data:         "12/04/2024",
		Beneficiario: "Decathlon",
		Importo:      core.MustParseCents("45.50"),
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if entry.TipoVoce != core.TipoVoceUscita {
		t.Fatalf("expected TipoVoce Uscita, got %q", entry.TipoVoce)
	}
	if entry.Entrata.Cents != 0 || entry.Uscita.Cents != 4550 {
		t.Fatalf("expected Entrata 0.00 / Uscita 45.50, got %s/%s", entry.Entrata, entry.Uscita)
	}
	if len(b.Expenses) != 1 || len(b.Ledger) != 1 {
		t.Fatalf("expected 1 expense and 1 ledger entry")
	}
	// Expenses do not consume receipt numbers.
	if b.NextNumero() != "1" {
		t.Fatalf("expense advanced the receipt counter")
	}
}

func TestPostExpenseValidation(t *testing.T) {
	b := New()
	_, err := b.PostExpense(ExpenseInput{Data: "12/04/2024", Beneficiario: "Decathlon"})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected amount error, got %v", err)
	}
	if len(b.Ledger) != 0 {
		t.Fatalf("mutated state on invalid input")
	}
}

func TestLedgerEntryExclusivity(t *testing.T) {
	b := New()
	_, _, _ = b.PostReceipt(ReceiptInput{Data: "10/01/2024", Intestatario: "A", Importo: core.MustParseCents("1.00")})
	_, _ = b.PostExpense(ExpenseInput{Data: "11/01/2024", Importo: core.MustParseCents("2.00")})
	for i, e := range b.Ledger {
		in := e.Entrata.Cents != 0
		out := e.Uscita.Cents != 0
		if in == out {
			t.Fatalf("entry %d violates inflow/outflow exclusivity: %+v", i, e)
		}
	}
}

func TestAddMember(t *testing.T) {
	b := New()
	if err := b.AddMember(core.Member{Nome: "Anna", Cognome: "Verdi", Attivo: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.AddMember(core.Member{Nome: "NoSurname"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(b.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(b.Members))
	}
}
