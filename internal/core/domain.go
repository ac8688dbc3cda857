package core

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the fixed wire representation of calendar dates in every
// table this application exchanges with the persistence mirror.
const DateLayout = "02/01/2006"

// TipoVoceUscita marks ledger entries derived from manually entered expenses.
const TipoVoceUscita = "Uscita"

// ErrValidation is the base error for input that is rejected before any
// state mutation. All validation sentinels wrap it, so callers can classify
// with errors.Is(err, ErrValidation).
var ErrValidation = errors.New("dati non validi")

var (
	ErrInvalidAmount     = fmt.Errorf("%w: importo non positivo", ErrValidation)
	ErrEmptyIntestatario = fmt.Errorf("%w: intestatario mancante", ErrValidation)
	ErrInvalidDate       = fmt.Errorf("%w: data non valida", ErrValidation)
)

type (
	// Date is a calendar date in dd/mm/yyyy text form. Rows loaded from the
	// mirror keep whatever text they carried, parseable or not; month and
	// year breakdowns simply skip rows that do not parse.
	Date string

	// Receipt is an issued proof-of-payment document. Immutable after
	// issuance; the PDF blob is session-only and never enters a Table.
	Receipt struct {
		Numero          string
		Data            Date
		Intestatario    string
		CodiceFiscale   string
		TipoVoce        string
		CentroCosto     string
		Causale         string
		Importo         Money
		MetodoPagamento string
		Note            string
		PDF             []byte
	}

	// Expense is a manually recorded outflow, optionally with an attached
	// proof document.
	Expense struct {
		Data            Date
		NumeroDocumento string
		Beneficiario    string
		CentroCosto     string
		Causale         string
		Importo         Money
		MetodoPagamento string
		Documento       []byte
	}

	// LedgerEntry is one prima nota row, derived 1:1 from a Receipt or an
	// Expense. Exactly one of Entrata/Uscita is nonzero.
	LedgerEntry struct {
		Data            Date
		NumeroDocumento string
		Intestatario    string
		TipoVoce        string
		CentroCosto     string
		Causale         string
		Entrata         Money
		Uscita          Money
		MetodoPagamento string
		Documento       []byte
	}

	// Member is a registered member of the association.
	Member struct {
		Nome                string
		Cognome             string
		CodiceFiscale       string
		Email               string
		Telefono            string
		DataIscrizione      Date
		CertificatoScadenza Date
		AttivitaPrincipale  string
		Note                string
		Attivo              bool
	}

	// Association is the issuing entity's identity, read-only input to
	// receipt rendering.
	Association struct {
		Denominazione string `yaml:"denominazione"`
		CodiceFiscale string `yaml:"codice_fiscale"`
		TipoEnte      string `yaml:"tipo_ente"`
		Indirizzo     string `yaml:"indirizzo"`
		CAP           string `yaml:"cap"`
		Comune        string `yaml:"comune"`
		Provincia     string `yaml:"provincia"`
		Email         string `yaml:"email"`
		Telefono      string `yaml:"telefono"`
		IBAN          string `yaml:"iban"`
		Presidente    string `yaml:"presidente"`
		Logo          []byte `yaml:"-"`
	}
)

// NewDate formats a time as a wire date.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time parses the date under the fixed dd/mm/yyyy layout.
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return t, nil
}

// Year returns the calendar year, or false when the date does not parse.
func (d Date) Year() (int, bool) {
	t, err := d.Time()
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// YearMonth returns the "2006-01" month bucket key, or false when the date
// does not parse.
func (d Date) YearMonth() (string, bool) {
	t, err := d.Time()
	if err != nil {
		return "", false
	}
	return t.Format("2006-01"), true
}

func (d Date) IsZero() bool { return d == "" }

func (d Date) String() string { return string(d) }

// Validate rejects members without both name fields, matching the registry
// form of the original application.
func (m Member) Validate() error {
	if m.Nome == "" || m.Cognome == "" {
		return fmt.Errorf("%w: nome e cognome obbligatori", ErrValidation)
	}
	return nil
}
