package book

import (
	"fmt"

	"asdgest/internal/core"
)

// Column sets of the mirrored tables. Order is part of the wire format and
// must be preserved exactly across the spreadsheet round trip.
var (
	ColonneRicevute = []string{
		"Numero", "Data", "Intestatario", "CF", "TipoVoce", "CentroCosto",
		"Causale", "Importo", "MetodoPagamento", "Note",
	}
	ColonnePrimaNota = []string{
		"Data", "NumeroDocumento", "Intestatario", "TipoVoce", "CentroCosto",
		"Causale", "Entrata", "Uscita", "MetodoPagamento",
	}
	ColonneSoci = []string{
		"Nome", "Cognome", "CF", "Email", "Telefono", "DataIscrizione",
		"CertificatoScadenza", "AttivitaPrincipale", "Note", "Attivo",
	}
)

// ReceiptsTable renders the receipt collection, minus document blobs.
func (b *Book) ReceiptsTable() core.Table {
	t := core.NewTable(ColonneRicevute...)
	for _, r := range b.Receipts {
		_ = t.AppendRow(r.Numero, r.Data.String(), r.Intestatario, r.CodiceFiscale,
			r.TipoVoce, r.CentroCosto, r.Causale, r.Importo.String(),
			r.MetodoPagamento, r.Note)
	}
	return t
}

// PrimaNotaTable renders the ledger, minus document blobs.
func (b *Book) PrimaNotaTable() core.Table {
	return LedgerTable(b.Ledger)
}

// LedgerTable renders an arbitrary ledger slice, e.g. a filtered view.
func LedgerTable(entries []core.LedgerEntry) core.Table {
	t := core.NewTable(ColonnePrimaNota...)
	for _, e := range entries {
		_ = t.AppendRow(e.Data.String(), e.NumeroDocumento, e.Intestatario,
			e.TipoVoce, e.CentroCosto, e.Causale, e.Entrata.String(),
			e.Uscita.String(), e.MetodoPagamento)
	}
	return t
}

// MembersTable renders the member registry.
func (b *Book) MembersTable() core.Table {
	t := core.NewTable(ColonneSoci...)
	for _, m := range b.Members {
		attivo := "No"
		if m.Attivo {
			attivo = "Sì"
		}
		_ = t.AppendRow(m.Nome, m.Cognome, m.CodiceFiscale, m.Email, m.Telefono,
			m.DataIscrizione.String(), m.CertificatoScadenza.String(),
			m.AttivitaPrincipale, m.Note, attivo)
	}
	return t
}

// Restore rebuilds the book from mirrored tables. Nil tables are skipped;
// rows are decoded leniently so that a partially hand-edited spreadsheet does
// not block startup, but amounts must parse. The sequence counter resumes
// after the highest numeric receipt number seen.
func (b *Book) Restore(ricevute, primaNota, soci *core.Table) error {
	if ricevute != nil {
		for i := range ricevute.Rows {
			imp, err := parseCellAmount(ricevute.Cell(i, "Importo"))
			if err != nil {
				return fmt.Errorf("ricevute row %d: %w", i+1, err)
			}
			b.Receipts = append(b.Receipts, core.Receipt{
				Numero:          ricevute.Cell(i, "Numero"),
				Data:            core.Date(ricevute.Cell(i, "Data")),
				Intestatario:    ricevute.Cell(i, "Intestatario"),
				CodiceFiscale:   ricevute.Cell(i, "CF"),
				TipoVoce:        ricevute.Cell(i, "TipoVoce"),
				CentroCosto:     ricevute.Cell(i, "CentroCosto"),
				Causale:         ricevute.Cell(i, "Causale"),
				Importo:         imp,
				MetodoPagamento: ricevute.Cell(i, "MetodoPagamento"),
				Note:            ricevute.Cell(i, "Note"),
			})
		}
	}
	if primaNota != nil {
		for i := range primaNota.Rows {
			entrata, err := parseCellAmount(primaNota.Cell(i, "Entrata"))
			if err != nil {
				return fmt.Errorf("prima nota row %d: %w", i+1, err)
			}
			uscita, err := parseCellAmount(primaNota.Cell(i, "Uscita"))
			if err != nil {
				return fmt.Errorf("prima nota row %d: %w", i+1, err)
			}
			b.Ledger = append(b.Ledger, core.LedgerEntry{
				Data:            core.Date(primaNota.Cell(i, "Data")),
				NumeroDocumento: primaNota.Cell(i, "NumeroDocumento"),
				Intestatario:    primaNota.Cell(i, "Intestatario"),
				TipoVoce:        primaNota.Cell(i, "TipoVoce"),
				CentroCosto:     primaNota.Cell(i, "CentroCosto"),
				Causale:         primaNota.Cell(i, "Causale"),
				Entrata:         entrata,
				Uscita:          uscita,
				MetodoPagamento: primaNota.Cell(i, "MetodoPagamento"),
			})
		}
	}
	if soci != nil {
		for i := range soci.Rows {
			b.Members = append(b.Members, core.Member{
				Nome:                soci.Cell(i, "Nome"),
				Cognome:             soci.Cell(i, "Cognome"),
				CodiceFiscale:       soci.Cell(i, "CF"),
				Email:               soci.Cell(i, "Email"),
				Telefono:            soci.Cell(i, "Telefono"),
				DataIscrizione:      core.Date(soci.Cell(i, "DataIscrizione")),
				CertificatoScadenza: core.Date(soci.Cell(i, "CertificatoScadenza")),
				AttivitaPrincipale:  soci.Cell(i, "AttivitaPrincipale"),
				Note:                soci.Cell(i, "Note"),
				Attivo:              soci.Cell(i, "Attivo") == "Sì",
			})
		}
	}
	b.resumeProgressivo()
	return nil
}

// resumeProgressivo moves the counter past the highest numeric receipt number.
func (b *Book) resumeProgressivo() {
	next := b.progressivo
	for _, r := range b.Receipts {
		var n int
		if _, err := fmt.Sscanf(r.Numero, "%d", &n); err == nil && n+1 > next {
			next = n + 1
		}
	}
	b.progressivo = next
}

// parseCellAmount treats empty cells as zero; anything else must be a
// well-formed decimal. Zero is legal here because derived entries always
// carry a zero on one of the two sides.
func parseCellAmount(s string) (core.Money, error) {
	if s == "" || s == "0" || s == "0.00" || s == "0,00" {
		return core.Money{}, nil
	}
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}
