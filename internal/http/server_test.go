package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"asdgest/internal/book"
	"asdgest/internal/core"
	"asdgest/internal/mirror/memory"
	"asdgest/internal/services"
)

type stubRenderer struct{}

func (stubRenderer) RenderReceipt(core.Association, core.Receipt) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type recordingMailer struct {
	recipient string
	subject   string
	filename  string
	fail      bool
}

func (m *recordingMailer) SendDocument(_ context.Context, recipient, subject, _ string, _ []byte, filename string) error {
	if m.fail {
		return errors.New("smtp giù")
	}
	m.recipient = recipient
	m.subject = subject
	m.filename = filename
	return nil
}

func newTestServer(t *testing.T, mailer Mailer) *Server {
	t.Helper()
	svc := services.New(book.New(), core.Association{Denominazione: "Polisportiva Esempio ASD"},
		memory.New(), stubRenderer{}, nil, 0)
	return NewServer(":0", svc, mailer, nil)
}

func doJSON(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func issueTestReceipt(t *testing.T, srv *Server) map[string]any {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/ricevute", map[string]string{
		"data":             "10/01/2024",
		"intestatario":     "Mario Rossi",
		"tipo_voce":        "Quota associativa annuale",
		"importo":          "120,00",
		"metodo_pagamento": "Bonifico",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue status = %d, body %s", rec.Code, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestIssueAndListReceipts(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := issueTestReceipt(t, srv)
	if resp["numero"] != "1" {
		t.Fatalf("numero = %v", resp["numero"])
	}
	if resp["importo"] != "120.00" {
		t.Fatalf("importo = %v", resp["importo"])
	}
	if _, ok := resp["errore_mirror"]; ok {
		t.Fatalf("unexpected mirror error: %v", resp["errore_mirror"])
	}

	rec := doJSON(t, srv, http.MethodGet, "/ricevute", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0]["intestatario"] != "Mario Rossi" {
		t.Fatalf("unexpected list: %v", list)
	}
}

func TestIssueReceiptValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodPost, "/ricevute", map[string]string{
		"data":         "10/01/2024",
		"intestatario": "   ",
		"importo":      "120.00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/ricevute", nil)
	var list []map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Fatalf("rejected input reached the book: %v", list)
	}
}

func TestReceiptPDFDownload(t *testing.T) {
	srv := newTestServer(t, nil)
	issueTestReceipt(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/ricevute/pdf?indice=0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != mimePDF {
		t.Fatalf("content type = %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("body is not a PDF")
	}

	rec = doJSON(t, srv, http.MethodGet, "/ricevute/pdf?indice=9", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing receipt status = %d", rec.Code)
	}
}

func TestReceiptEmail(t *testing.T) {
	mailer := &recordingMailer{}
	srv := newTestServer(t, mailer)
	issueTestReceipt(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/ricevute/email?indice=0",
		map[string]string{"destinatario": "mario.rossi@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if mailer.recipient != "mario.rossi@example.com" {
		t.Fatalf("recipient = %q", mailer.recipient)
	}
	if mailer.subject != "Ricevuta n. 1 - Polisportiva Esempio ASD" {
		t.Fatalf("subject = %q", mailer.subject)
	}
	if mailer.filename != "ricevuta_1.pdf" {
		t.Fatalf("filename = %q", mailer.filename)
	}
}

func TestReceiptEmailNotConfigured(t *testing.T) {
	srv := newTestServer(t, nil)
	issueTestReceipt(t, srv)
	rec := doJSON(t, srv, http.MethodPost, "/ricevute/email?indice=0",
		map[string]string{"destinatario": "x@example.com"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestExpenseAndPrimaNota(t *testing.T) {
	srv := newTestServer(t, nil)
	issueTestReceipt(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/uscite", map[string]string{
		"data":             "15/02/2024",
		"beneficiario":     "Decathlon",
		"causale":          "Acquisto palloni",
		"importo":          "45,50",
		"metodo_pagamento": "Carta",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expense status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, srv, http.MethodGet, "/prima-nota", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d", rec.Code)
	}
	var view struct {
		Movimenti []map[string]string `json:"movimenti"`
		Totali    map[string]string   `json:"totali"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Movimenti) != 2 {
		t.Fatalf("movimenti = %d", len(view.Movimenti))
	}
	if view.Totali["entrate"] != "120.00" || view.Totali["uscite"] != "45.50" || view.Totali["saldo"] != "74.50" {
		t.Fatalf("unexpected totals: %v", view.Totali)
	}

	// Date-bounded view keeps only January.
	rec = doJSON(t, srv, http.MethodGet, "/prima-nota?da=01/01/2024&a=31/01/2024", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Movimenti) != 1 || view.Movimenti[0]["intestatario"] != "Mario Rossi" {
		t.Fatalf("unexpected bounded view: %v", view.Movimenti)
	}

	rec = doJSON(t, srv, http.MethodGet, "/prima-nota?da=borked", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid bound status = %d", rec.Code)
	}
}

func TestPrimaNotaExport(t *testing.T) {
	srv := newTestServer(t, nil)
	issueTestReceipt(t, srv)
	rec := doJSON(t, srv, http.MethodGet, "/prima-nota/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != mimeXLSX {
		t.Fatalf("content type = %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("empty workbook")
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, nil)
	issueTestReceipt(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var d struct {
		PerMese []map[string]string `json:"entrate_per_mese"`
		Anni    []int               `json:"anni"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if len(d.PerMese) != 1 || d.PerMese[0]["chiave"] != "2024-01" || d.PerMese[0]["entrata"] != "120.00" {
		t.Fatalf("unexpected month breakdown: %v", d.PerMese)
	}
	if len(d.Anni) != 1 || d.Anni[0] != 2024 {
		t.Fatalf("unexpected years: %v", d.Anni)
	}
}

func TestReportAndBackupDownloads(t *testing.T) {
	srv := newTestServer(t, nil)
	issueTestReceipt(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/report?anno=2024", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/report?anno=1999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty year status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/report?anno=boh", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad year status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/backup", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("backup status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != mimeZIP {
		t.Fatalf("content type = %q", got)
	}

	rec = doJSON(t, srv, http.MethodPost, "/backup/mirror", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("backup-to-mirror status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestSoci(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodPost, "/soci", map[string]any{
		"nome": "Mario", "cognome": "Rossi", "attivo": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, srv, http.MethodPost, "/soci", map[string]any{"nome": "SoloNome"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid member status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/soci", nil)
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("soci = %d", len(list))
	}
}

func TestListino(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodGet, "/listino", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		ProssimoNumero string              `json:"prossimo_numero"`
		Voci           []map[string]string `json:"voci"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ProssimoNumero != "1" {
		t.Fatalf("prossimo numero = %q", resp.ProssimoNumero)
	}
	if len(resp.Voci) != 4 {
		t.Fatalf("voci = %d", len(resp.Voci))
	}
}

func TestMethodChecks(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodDelete, "/ricevute", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "GET, POST" {
		t.Fatalf("allow = %q", got)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}
