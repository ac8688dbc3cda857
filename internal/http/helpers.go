package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"asdgest/internal/book"
	"asdgest/internal/core"
	"asdgest/internal/notify"
	"asdgest/internal/render"
)

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses: invalid input is the
// client's fault, a missing SMTP setup is unavailability, the rest is 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"errore": err.Error()})
	case errors.Is(err, notify.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"errore": err.Error()})
	case errors.Is(err, render.ErrRender):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"errore": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"errore": err.Error()})
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// parseImporto accepts both comma and dot decimals, as the forms of the
// original application did.
func parseImporto(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// filterFromQuery builds a ledger filter from the query string. Absent
// parameters leave their predicate unconstrained.
func filterFromQuery(r *http.Request) book.Filter {
	q := r.URL.Query()
	return book.Filter{
		Da:              core.Date(strings.TrimSpace(q.Get("da"))),
		A:               core.Date(strings.TrimSpace(q.Get("a"))),
		TipoVoce:        strings.TrimSpace(q.Get("tipo_voce")),
		MetodoPagamento: strings.TrimSpace(q.Get("metodo_pagamento")),
		CentroCosto:     strings.TrimSpace(q.Get("centro_costo")),
	}
}

func sendFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeZIP  = "application/zip"
	mimePDF  = "application/pdf"
)
