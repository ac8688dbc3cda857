// Package render produces the fixed-layout receipt document. The renderer is
// a pure function of the association profile and the receipt; any failure
// here aborts the whole issuance.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"asdgest/internal/core"
)

// ErrRender wraps every document-build failure, including malformed logos.
var ErrRender = errors.New("generazione ricevuta fallita")

// PDFRenderer renders receipts as A4 PDF documents.
type PDFRenderer struct{}

// NewPDF returns the default renderer.
func NewPDF() *PDFRenderer { return &PDFRenderer{} }

const (
	marginMM = 20.0
	logoMM   = 30.0
)

// RenderReceipt builds the receipt document: entity header with optional
// logo, centered title, number/date line, interpolated body sentence,
// optional cost-center/payment/notes lines and the signature rule.
func (p *PDFRenderer) RenderReceipt(a core.Association, r core.Receipt) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	textX := marginMM
	if len(a.Logo) > 0 {
		kind, err := imageType(a.Logo)
		if err != nil {
			return nil, err
		}
		opts := fpdf.ImageOptions{ImageType: kind}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(a.Logo))
		pdf.ImageOptions("logo", marginMM, marginMM, logoMM, logoMM, false, opts, 0, "")
		textX = marginMM + logoMM + 10
	}

	denominazione := a.Denominazione
	if denominazione == "" {
		denominazione = "ASSOCIAZIONE SPORTIVA DILETTANTISTICA"
	}
	pdf.SetXY(textX, marginMM)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 6, tr(denominazione), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range headerLines(a) {
		pdf.SetX(textX)
		pdf.CellFormat(0, 4.5, tr(line), "", 1, "L", false, 0, "")
	}

	y := pdf.GetY() + 4
	if len(a.Logo) > 0 && y < marginMM+logoMM+4 {
		y = marginMM + logoMM + 4
	}
	pdf.SetLineWidth(0.7)
	pdf.Line(marginMM, y, pageW-marginMM, y)
	pdf.SetY(y + 8)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "RICEVUTA GENERICA", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr("Numero: "+r.Numero), "", 0, "L", false, 0, "")
	pdf.SetX(marginMM)
	pdf.CellFormat(0, 5, tr("Data: "+r.Data.String()), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(pageW-2*marginMM, 6, tr(bodySentence(r)), "", "L", false)
	pdf.Ln(4)

	if r.CentroCosto != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr("Attività / Centro di costo: "+r.CentroCosto), "", 1, "L", false, 0, "")
	}
	if r.MetodoPagamento != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, tr("Metodo di pagamento: "+r.MetodoPagamento), "", 1, "L", false, 0, "")
	}
	if r.Note != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, "Note:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(pageW-2*marginMM, 5, tr(r.Note), "", "L", false)
	}

	// Signature rule, anchored near the bottom of the page.
	yFirma := pageH - 40
	pdf.SetLineWidth(0.6)
	pdf.Line(pageW-80, yFirma, pageW-marginMM, yFirma)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(pageW-80, yFirma+2)
	pdf.CellFormat(60, 5, "Il Legale Rappresentante", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func headerLines(a core.Association) []string {
	var lines []string
	if a.CodiceFiscale != "" {
		lines = append(lines, "CF: "+a.CodiceFiscale)
	}
	addr := strings.TrimSpace(strings.Join(nonEmpty(
		a.Indirizzo, a.CAP, a.Comune, parenthesize(a.Provincia)), " "))
	if addr != "" {
		lines = append(lines, addr)
	}
	var contatti []string
	if a.Email != "" {
		contatti = append(contatti, "Email: "+a.Email)
	}
	if a.Telefono != "" {
		contatti = append(contatti, "Tel: "+a.Telefono)
	}
	if len(contatti) > 0 {
		lines = append(lines, strings.Join(contatti, " - "))
	}
	return lines
}

// bodySentence interpolates payer, amount and reason the way the original
// receipt text reads; the category is spelled out unless it is "Altro".
func bodySentence(r core.Receipt) string {
	cf := r.CodiceFiscale
	if cf == "" {
		cf = "n.d."
	}
	tipo := ""
	if r.TipoVoce != "" && r.TipoVoce != "Altro" {
		tipo = strings.ToLower(r.TipoVoce) + " "
	}
	return fmt.Sprintf("Ricevuta da %s (CF: %s) la somma di € %s a titolo di %sper %s.",
		r.Intestatario, cf, r.Importo, tipo, r.Causale)
}

func imageType(b []byte) (string, error) {
	switch {
	case len(b) >= 4 && bytes.Equal(b[:4], []byte{0x89, 'P', 'N', 'G'}):
		return "PNG", nil
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8:
		return "JPG", nil
	default:
		return "", fmt.Errorf("%w: formato logo non riconosciuto", ErrRender)
	}
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parenthesize(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}
