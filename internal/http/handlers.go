package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"asdgest/internal/book"
	"asdgest/internal/core"
	"asdgest/internal/notify"
)

type ricevutaRequest struct {
	Numero          string `json:"numero"`
	Data            string `json:"data"`
	Intestatario    string `json:"intestatario"`
	CodiceFiscale   string `json:"codice_fiscale"`
	TipoVoce        string `json:"tipo_voce"`
	CentroCosto     string `json:"centro_costo"`
	Causale         string `json:"causale"`
	Importo         string `json:"importo"`
	MetodoPagamento string `json:"metodo_pagamento"`
	Note            string `json:"note"`
	Voce            string `json:"voce"`
}

type ricevutaResponse struct {
	Indice          int    `json:"indice"`
	Numero          string `json:"numero"`
	Data            string `json:"data"`
	Intestatario    string `json:"intestatario"`
	CodiceFiscale   string `json:"codice_fiscale,omitempty"`
	TipoVoce        string `json:"tipo_voce,omitempty"`
	CentroCosto     string `json:"centro_costo,omitempty"`
	Causale         string `json:"causale"`
	Importo         string `json:"importo"`
	MetodoPagamento string `json:"metodo_pagamento,omitempty"`
	Note            string `json:"note,omitempty"`
	ErroreMirror    string `json:"errore_mirror,omitempty"`
}

func ricevutaDTO(i int, r core.Receipt) ricevutaResponse {
	return ricevutaResponse{
		Indice:          i,
		Numero:          r.Numero,
		Data:            r.Data.String(),
		Intestatario:    r.Intestatario,
		CodiceFiscale:   r.CodiceFiscale,
		TipoVoce:        r.TipoVoce,
		CentroCosto:     r.CentroCosto,
		Causale:         r.Causale,
		Importo:         r.Importo.String(),
		MetodoPagamento: r.MetodoPagamento,
		Note:            r.Note,
	}
}

// handleRicevute issues a receipt on POST and lists the collection on GET.
func (s *Server) handleRicevute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		receipts := s.svc.Receipts()
		out := make([]ricevutaResponse, 0, len(receipts))
		for i, rc := range receipts {
			out = append(out, ricevutaDTO(i, rc))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req ricevutaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errore": "corpo richiesta non valido"})
			return
		}
		in := book.ReceiptInput{
			Numero:          req.Numero,
			Data:            core.Date(strings.TrimSpace(req.Data)),
			Intestatario:    req.Intestatario,
			CodiceFiscale:   req.CodiceFiscale,
			TipoVoce:        req.TipoVoce,
			CentroCosto:     req.CentroCosto,
			Causale:         req.Causale,
			MetodoPagamento: req.MetodoPagamento,
			Note:            req.Note,
			Voce:            req.Voce,
		}
		if strings.TrimSpace(req.Importo) != "" {
			imp, err := parseImporto(req.Importo)
			if err != nil {
				writeError(w, err)
				return
			}
			in.Importo = imp
		}
		res, err := s.svc.IssueReceipt(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		resp := ricevutaDTO(len(s.svc.Receipts())-1, res.Receipt)
		if res.MirrorErr != nil {
			resp.ErroreMirror = res.MirrorErr.Error()
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleRicevutaPDF streams the stored document of one receipt.
func (s *Server) handleRicevutaPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	rc, ok := s.receiptFromQuery(w, r)
	if !ok {
		return
	}
	if len(rc.PDF) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"errore": "documento non disponibile per questa ricevuta"})
		return
	}
	sendFile(w, mimePDF, fmt.Sprintf("ricevuta_%s.pdf", rc.Numero), rc.PDF)
}

type emailRequest struct {
	Destinatario string `json:"destinatario"`
}

// handleRicevutaEmail sends one issued receipt to the given address.
func (s *Server) handleRicevutaEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.mailer == nil {
		writeError(w, notify.ErrNotConfigured)
		return
	}
	rc, ok := s.receiptFromQuery(w, r)
	if !ok {
		return
	}
	if len(rc.PDF) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"errore": "documento non disponibile per questa ricevuta"})
		return
	}
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Destinatario) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errore": "destinatario mancante"})
		return
	}

	denominazione := s.svc.Association().Denominazione
	err := s.mailer.SendDocument(r.Context(),
		strings.TrimSpace(req.Destinatario),
		notify.ReceiptSubject(rc.Numero, denominazione),
		notify.ReceiptBody(rc.Intestatario, denominazione),
		rc.PDF,
		fmt.Sprintf("ricevuta_%s.pdf", rc.Numero))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "invio email fallito", "numero", rc.Numero, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"stato": "inviata"})
}

func (s *Server) receiptFromQuery(w http.ResponseWriter, r *http.Request) (core.Receipt, bool) {
	idx, err := strconv.Atoi(r.URL.Query().Get("indice"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errore": "parametro indice non valido"})
		return core.Receipt{}, false
	}
	rc, ok := s.svc.ReceiptByIndex(idx)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"errore": "ricevuta non trovata"})
		return core.Receipt{}, false
	}
	return rc, true
}

type uscitaRequest struct {
	Data            string `json:"data"`
	NumeroDocumento string `json:"numero_documento"`
	Beneficiario    string `json:"beneficiario"`
	CentroCosto     string `json:"centro_costo"`
	Causale         string `json:"causale"`
	Importo         string `json:"importo"`
	MetodoPagamento string `json:"metodo_pagamento"`
}

// handleUscite records a manual expense on POST.
func (s *Server) handleUscite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req uscitaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errore": "corpo richiesta non valido"})
		return
	}
	imp, err := parseImporto(req.Importo)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.svc.RegisterExpense(r.Context(), book.ExpenseInput{
		Data:            core.Date(strings.TrimSpace(req.Data)),
		NumeroDocumento: req.NumeroDocumento,
		Beneficiario:    req.Beneficiario,
		CentroCosto:     req.CentroCosto,
		Causale:         req.Causale,
		Importo:         imp,
		MetodoPagamento: req.MetodoPagamento,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]string{
		"data":         res.Entry.Data.String(),
		"beneficiario": res.Entry.Intestatario,
		"uscita":       res.Entry.Uscita.String(),
	}
	if res.MirrorErr != nil {
		resp["errore_mirror"] = res.MirrorErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

type socioRequest struct {
	Nome                string `json:"nome"`
	Cognome             string `json:"cognome"`
	CodiceFiscale       string `json:"codice_fiscale"`
	Email               string `json:"email"`
	Telefono            string `json:"telefono"`
	DataIscrizione      string `json:"data_iscrizione"`
	CertificatoScadenza string `json:"certificato_scadenza"`
	AttivitaPrincipale  string `json:"attivita_principale"`
	Note                string `json:"note"`
	Attivo              bool   `json:"attivo"`
}

// handleSoci registers a member on POST and lists the registry on GET.
func (s *Server) handleSoci(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		members := s.svc.Members()
		out := make([]socioRequest, 0, len(members))
		for _, m := range members {
			out = append(out, socioRequest{
				Nome:                m.Nome,
				Cognome:             m.Cognome,
				CodiceFiscale:       m.CodiceFiscale,
				Email:               m.Email,
				Telefono:            m.Telefono,
				DataIscrizione:      m.DataIscrizione.String(),
				CertificatoScadenza: m.CertificatoScadenza.String(),
				AttivitaPrincipale:  m.AttivitaPrincipale,
				Note:                m.Note,
				Attivo:              m.Attivo,
			})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req socioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errore": "corpo richiesta non valido"})
			return
		}
		mirrorErr, err := s.svc.AddMember(r.Context(), core.Member{
			Nome:                strings.TrimSpace(req.Nome),
			Cognome:             strings.TrimSpace(req.Cognome),
			CodiceFiscale:       strings.TrimSpace(req.CodiceFiscale),
			Email:               strings.TrimSpace(req.Email),
			Telefono:            strings.TrimSpace(req.Telefono),
			DataIscrizione:      core.Date(strings.TrimSpace(req.DataIscrizione)),
			CertificatoScadenza: core.Date(strings.TrimSpace(req.CertificatoScadenza)),
			AttivitaPrincipale:  req.AttivitaPrincipale,
			Note:                req.Note,
			Attivo:              req.Attivo,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resp := map[string]string{"stato": "registrato"}
		if mirrorErr != nil {
			resp["errore_mirror"] = mirrorErr.Error()
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleListino exposes the quick-pick templates for issuance forms.
func (s *Server) handleListino(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	type voce struct {
		Nome     string `json:"nome"`
		TipoVoce string `json:"tipo_voce"`
		Importo  string `json:"importo"`
		Causale  string `json:"causale"`
	}
	listino := s.svc.Listino()
	out := make([]voce, 0, len(listino))
	for _, v := range listino {
		out = append(out, voce{Nome: v.Nome, TipoVoce: v.TipoVoce, Importo: v.Importo, Causale: v.Causale})
	}
	writeJSON(w, http.StatusOK, struct {
		ProssimoNumero string `json:"prossimo_numero"`
		Voci           []voce `json:"voci"`
	}{s.svc.NextNumero(), out})
}
