// Package book holds the session-scoped bookkeeping state: the receipt
// collection, the prima nota ledger, the member registry and the receipt
// sequence counter. A Book is passed explicitly to every pipeline and engine;
// there is no hidden global state.
package book

import (
	"strconv"
	"strings"

	"asdgest/internal/core"
)

// Book is the owned session context. It is not safe for concurrent use; the
// delivery layer serializes mutations.
type Book struct {
	Receipts []core.Receipt
	Expenses []core.Expense
	Ledger   []core.LedgerEntry
	Members  []core.Member

	Listino []core.Voce

	progressivo int
}

// New creates an empty book. The receipt sequence counter starts at 1 and is
// never reset for the life of the session.
func New() *Book {
	return &Book{Listino: core.DefaultListino(), progressivo: 1}
}

// NextNumero returns the next receipt number suggestion.
func (b *Book) NextNumero() string {
	return strconv.Itoa(b.progressivo)
}

// Progressivo exposes the raw counter, mainly for tests and status output.
func (b *Book) Progressivo() int { return b.progressivo }

// ReceiptInput is the user-supplied portion of a receipt. Numero may be
// edited freely; empty means "use the sequence counter". Voce selects a
// quick-pick template by name and overrides TipoVoce and the amount default.
type ReceiptInput struct {
	Numero          string
	Data            core.Date
	Intestatario    string
	CodiceFiscale   string
	TipoVoce        string
	CentroCosto     string
	Causale         string
	Importo         core.Money
	MetodoPagamento string
	Note            string
	Voce            string
}

// ExpenseInput is the user-supplied portion of a manual expense.
type ExpenseInput struct {
	Data            core.Date
	NumeroDocumento string
	Beneficiario    string
	CentroCosto     string
	Causale         string
	Importo         core.Money
	MetodoPagamento string
	Documento       []byte
}

// BuildReceipt resolves defaults and validates the input without mutating the
// book. The caller renders the document for the returned receipt and then
// commits it with AppendReceipt, so a render failure leaves no trace.
func (b *Book) BuildReceipt(in ReceiptInput) (core.Receipt, error) {
	if in.Voce != "" {
		if v, ok := core.FindVoce(b.Listino, in.Voce); ok {
			in.TipoVoce = v.TipoVoce
			if in.Importo.IsZero() {
				in.Importo = core.MustParseCents(v.Importo)
			}
			if in.Causale == "" {
				in.Causale = v.Causale
			}
		}
	}
	if in.Causale == "" {
		in.Causale = core.DefaultCausale(in.TipoVoce)
	}
	if in.Causale == "" {
		in.Causale = core.CausaleFallback
	}
	if strings.TrimSpace(in.Intestatario) == "" {
		return core.Receipt{}, core.ErrEmptyIntestatario
	}
	if err := in.Importo.Validate(); err != nil {
		return core.Receipt{}, err
	}
	if _, err := in.Data.Time(); err != nil {
		return core.Receipt{}, err
	}
	numero := strings.TrimSpace(in.Numero)
	if numero == "" {
		numero = b.NextNumero()
	}
	return core.Receipt{
		Numero:          numero,
		Data:            in.Data,
		Intestatario:    strings.TrimSpace(in.Intestatario),
		CodiceFiscale:   strings.TrimSpace(in.CodiceFiscale),
		TipoVoce:        in.TipoVoce,
		CentroCosto:     strings.TrimSpace(in.CentroCosto),
		Causale:         in.Causale,
		Importo:         in.Importo,
		MetodoPagamento: in.MetodoPagamento,
		Note:            in.Note,
	}, nil
}

// AppendReceipt commits an issued receipt: it appends the receipt, derives
// the prima nota inflow entry, and advances the sequence counter by one. The
// counter advances even when the caller overrode the document number.
func (b *Book) AppendReceipt(r core.Receipt) core.LedgerEntry {
	entry := core.LedgerEntry{
		Data:            r.Data,
		NumeroDocumento: r.Numero,
		Intestatario:    r.Intestatario,
		TipoVoce:        r.TipoVoce,
		CentroCosto:     r.CentroCosto,
		Causale:         r.Causale,
		Entrata:         r.Importo,
		Uscita:          core.Money{},
		MetodoPagamento: r.MetodoPagamento,
	}
	b.Receipts = append(b.Receipts, r)
	b.Ledger = append(b.Ledger, entry)
	b.progressivo++
	return entry
}

// PostReceipt is BuildReceipt followed by AppendReceipt, for callers that do
// not render a document.
func (b *Book) PostReceipt(in ReceiptInput) (core.Receipt, core.LedgerEntry, error) {
	r, err := b.BuildReceipt(in)
	if err != nil {
		return core.Receipt{}, core.LedgerEntry{}, err
	}
	return r, b.AppendReceipt(r), nil
}

// PostExpense validates a manual expense and appends it together with its
// derived prima nota outflow entry. The category tag is always "Uscita".
func (b *Book) PostExpense(in ExpenseInput) (core.LedgerEntry, error) {
	if err := in.Importo.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	if _, err := in.Data.Time(); err != nil {
		return core.LedgerEntry{}, err
	}
	exp := core.Expense{
		Data:            in.Data,
		NumeroDocumento: strings.TrimSpace(in.NumeroDocumento),
		Beneficiario:    strings.TrimSpace(in.Beneficiario),
		CentroCosto:     strings.TrimSpace(in.CentroCosto),
		Causale:         in.Causale,
		Importo:         in.Importo,
		MetodoPagamento: in.MetodoPagamento,
		Documento:       in.Documento,
	}
	entry := core.LedgerEntry{
		Data:            exp.Data,
		NumeroDocumento: exp.NumeroDocumento,
		Intestatario:    exp.Beneficiario,
		TipoVoce:        core.TipoVoceUscita,
		CentroCosto:     exp.CentroCosto,
		Causale:         exp.Causale,
		Entrata:         core.Money{},
		Uscita:          exp.Importo,
		MetodoPagamento: exp.MetodoPagamento,
		Documento:       exp.Documento,
	}
	b.Expenses = append(b.Expenses, exp)
	b.Ledger = append(b.Ledger, entry)
	return entry, nil
}

// AddMember validates and appends a member to the registry.
func (b *Book) AddMember(m core.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	b.Members = append(b.Members, m)
	return nil
}

// ReceiptByIndex returns the i-th issued receipt.
func (b *Book) ReceiptByIndex(i int) (core.Receipt, bool) {
	if i < 0 || i >= len(b.Receipts) {
		return core.Receipt{}, false
	}
	return b.Receipts[i], true
}
