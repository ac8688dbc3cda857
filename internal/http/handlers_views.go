package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"asdgest/internal/book"
	"asdgest/internal/core"
	"asdgest/internal/export"
	"asdgest/internal/services"
)

type movimentoResponse struct {
	Data            string `json:"data"`
	NumeroDocumento string `json:"numero_documento,omitempty"`
	Intestatario    string `json:"intestatario"`
	TipoVoce        string `json:"tipo_voce,omitempty"`
	CentroCosto     string `json:"centro_costo,omitempty"`
	Causale         string `json:"causale"`
	Entrata         string `json:"entrata"`
	Uscita          string `json:"uscita"`
	MetodoPagamento string `json:"metodo_pagamento,omitempty"`
}

type totalsResponse struct {
	Entrate string `json:"entrate"`
	Uscite  string `json:"uscite"`
	Saldo   string `json:"saldo"`
}

func totalsDTO(t book.Totals) totalsResponse {
	return totalsResponse{
		Entrate: t.Entrate.String(),
		Uscite:  t.Uscite.String(),
		Saldo:   t.Saldo.String(),
	}
}

func movimentiDTO(view []core.LedgerEntry) []movimentoResponse {
	out := make([]movimentoResponse, 0, len(view))
	for _, e := range view {
		out = append(out, movimentoResponse{
			Data:            e.Data.String(),
			NumeroDocumento: e.NumeroDocumento,
			Intestatario:    e.Intestatario,
			TipoVoce:        e.TipoVoce,
			CentroCosto:     e.CentroCosto,
			Causale:         e.Causale,
			Entrata:         e.Entrata.String(),
			Uscita:          e.Uscita.String(),
			MetodoPagamento: e.MetodoPagamento,
		})
	}
	return out
}

// handlePrimaNota returns the filtered ledger view with its totals.
func (s *Server) handlePrimaNota(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	f := filterFromQuery(r)
	if err := validFilter(f); err != nil {
		writeError(w, err)
		return
	}
	view, totals := s.svc.View(f)
	writeJSON(w, http.StatusOK, struct {
		Movimenti []movimentoResponse `json:"movimenti"`
		Totali    totalsResponse      `json:"totali"`
	}{movimentiDTO(view), totalsDTO(totals)})
}

// handlePrimaNotaExport downloads the filtered view as a workbook.
func (s *Server) handlePrimaNotaExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	f := filterFromQuery(r)
	if err := validFilter(f); err != nil {
		writeError(w, err)
		return
	}
	view, _ := s.svc.View(f)
	data, err := services.PrimaNotaExcel(view)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "export prima nota fallito", "error", err)
		writeError(w, err)
		return
	}
	sendFile(w, mimeXLSX, export.FilePrimaNota, data)
}

// validFilter rejects bounds that do not parse, before they silently empty
// the view.
func validFilter(f book.Filter) error {
	if !f.Da.IsZero() {
		if _, err := f.Da.Time(); err != nil {
			return err
		}
	}
	if !f.A.IsZero() {
		if _, err := f.A.Time(); err != nil {
			return err
		}
	}
	return nil
}

type keyAmountResponse struct {
	Chiave  string `json:"chiave"`
	Entrata string `json:"entrata"`
}

func keyAmountsDTO(rows []book.KeyAmount) []keyAmountResponse {
	out := make([]keyAmountResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, keyAmountResponse{Chiave: r.Key, Entrata: r.Amount.String()})
	}
	return out
}

// handleDashboard returns the aggregate inflow views plus overall totals.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	d := s.svc.Dashboard()
	writeJSON(w, http.StatusOK, struct {
		PerMese   []keyAmountResponse `json:"entrate_per_mese"`
		PerTipo   []keyAmountResponse `json:"entrate_per_tipo"`
		PerCentro []keyAmountResponse `json:"entrate_per_centro"`
		Totali    totalsResponse      `json:"totali"`
		Anni      []int               `json:"anni"`
	}{
		keyAmountsDTO(d.PerMese),
		keyAmountsDTO(d.PerTipo),
		keyAmountsDTO(d.PerCentro),
		totalsDTO(d.Totals),
		s.svc.Years(),
	})
}

// handleReport downloads the annual report workbook for ?anno=YYYY.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	anno, err := strconv.Atoi(r.URL.Query().Get("anno"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errore": "parametro anno non valido"})
		return
	}
	data, err := s.svc.AnnualReport(anno)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"errore": err.Error()})
		return
	}
	sendFile(w, mimeXLSX, fmt.Sprintf("report_%d_asd_ssd.xlsx", anno), data)
}

// handleBackup downloads the two-workbook ZIP of the current state.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	data, err := s.svc.BackupArchive()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "creazione backup fallita", "error", err)
		writeError(w, err)
		return
	}
	sendFile(w, mimeZIP, export.FileBackup, data)
}

// handleBackupToMirror pushes all tables to the configured mirror.
func (s *Server) handleBackupToMirror(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	start := time.Now()
	if err := s.svc.Backup(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "backup su mirror fallito", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"stato":     "completato",
		"durata_ms": strconv.FormatInt(time.Since(start).Milliseconds(), 10),
	})
}
