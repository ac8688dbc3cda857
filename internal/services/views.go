package services

import (
	"fmt"

	"asdgest/internal/book"
	"asdgest/internal/core"
	"asdgest/internal/export"
)

// Association returns the configured entity profile.
func (s *Service) Association() core.Association { return s.assoc }

// Listino returns the quick-pick price list.
func (s *Service) Listino() []core.Voce {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Voce, len(s.book.Listino))
	copy(out, s.book.Listino)
	return out
}

// NextNumero returns the current receipt number suggestion.
func (s *Service) NextNumero() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.NextNumero()
}

// Receipts returns a copy of the receipt collection, insertion order.
func (s *Service) Receipts() []core.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Receipt, len(s.book.Receipts))
	copy(out, s.book.Receipts)
	return out
}

// ReceiptByIndex returns the i-th issued receipt.
func (s *Service) ReceiptByIndex(i int) (core.Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.ReceiptByIndex(i)
}

// Ledger returns a copy of the prima nota, insertion order.
func (s *Service) Ledger() []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LedgerEntry, len(s.book.Ledger))
	copy(out, s.book.Ledger)
	return out
}

// Members returns a copy of the member registry.
func (s *Service) Members() []core.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Member, len(s.book.Members))
	copy(out, s.book.Members)
	return out
}

// View applies a filter and computes its totals in one pass over a snapshot.
func (s *Service) View(f book.Filter) ([]core.LedgerEntry, book.Totals) {
	ledger := s.Ledger()
	view := book.Apply(ledger, f)
	return view, book.ComputeTotals(view)
}

// Dashboard bundles the three inflow breakdowns of the main page.
type Dashboard struct {
	PerMese   []book.KeyAmount
	PerTipo   []book.KeyAmount
	PerCentro []book.KeyAmount
	Totals    book.Totals
}

// Dashboard computes the aggregate views over the whole ledger.
func (s *Service) Dashboard() Dashboard {
	ledger := s.Ledger()
	return Dashboard{
		PerMese:   book.EntratePerMese(ledger),
		PerTipo:   book.EntratePerTipo(ledger),
		PerCentro: book.EntratePerCentro(ledger),
		Totals:    book.ComputeTotals(ledger),
	}
}

// Years lists the report-eligible years present in the ledger.
func (s *Service) Years() []int {
	return book.Years(s.Ledger())
}

// BackupArchive renders the two-workbook ZIP of the current state.
func (s *Service) BackupArchive() ([]byte, error) {
	s.mu.Lock()
	ricevute := s.book.ReceiptsTable()
	primaNota := s.book.PrimaNotaTable()
	s.mu.Unlock()
	return export.BackupArchive(ricevute, primaNota)
}

// AnnualReport renders the three-sheet report workbook for one year.
func (s *Service) AnnualReport(anno int) ([]byte, error) {
	ledger := s.Ledger()
	year := book.LedgerForYear(ledger, anno)
	if len(year) == 0 {
		return nil, fmt.Errorf("nessun movimento per l'anno %d", anno)
	}
	perTipo := book.AggregateTable("TipoVoce", book.EntratePerTipo(year))
	perCentro := book.AggregateTable("CentroCosto", book.EntratePerCentro(year))
	dettaglio := book.LedgerTable(year)
	return export.AnnualReport(perTipo, perCentro, dettaglio)
}

// PrimaNotaExcel renders a ledger slice as a single-sheet workbook, used for
// the filtered-view download.
func PrimaNotaExcel(view []core.LedgerEntry) ([]byte, error) {
	return export.ExcelBytes(book.LedgerTable(view), export.SheetPrimaNota)
}
