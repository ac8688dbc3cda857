// Package mirror defines the outbound port for the persistence mirror. The
// in-memory book is authoritative; a mirror only receives full-table
// snapshots after each mutation and hands back whatever it holds at startup.
package mirror

import (
	"context"

	"asdgest/internal/core"
)

// Logical table names, stable across backends. Each backend maps them to its
// own storage names (file names, Drive titles, SQL tables).
const (
	NameRicevute  = "ricevute"
	NamePrimaNota = "prima_nota"
	NameSoci      = "soci"
)

// State is what a mirror holds at startup. A nil table means the backend has
// no copy of it; the caller starts that table empty.
type State struct {
	Ricevute  *core.Table
	PrimaNota *core.Table
	Soci      *core.Table
}

// Mirror is the outbound persistence port.
type Mirror interface {
	// Save replaces the mirrored copy of the named table with the snapshot.
	Save(ctx context.Context, t core.Table, name string) error

	// Load returns the mirrored tables, nil for the ones the backend does
	// not hold. Load errors are fatal at startup, never during operation.
	Load(ctx context.Context) (State, error)
}
