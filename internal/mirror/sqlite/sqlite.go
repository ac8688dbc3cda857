// Package sqlite mirrors the book tables into a local SQLite database. Every
// save replaces the whole table in one transaction; cell values stay TEXT so
// the snapshot round-trips exactly like the spreadsheet form.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"asdgest/internal/book"
	"asdgest/internal/core"
	"asdgest/internal/mirror"
)

type schema struct {
	table   string
	columns []string
	headers []string
}

var schemas = map[string]schema{
	mirror.NameRicevute: {
		table: "ricevute",
		columns: []string{"numero", "data", "intestatario", "cf", "tipo_voce",
			"centro_costo", "causale", "importo", "metodo_pagamento", "note"},
		headers: book.ColonneRicevute,
	},
	mirror.NamePrimaNota: {
		table: "prima_nota",
		columns: []string{"data", "numero_documento", "intestatario", "tipo_voce",
			"centro_costo", "causale", "entrata", "uscita", "metodo_pagamento"},
		headers: book.ColonnePrimaNota,
	},
	mirror.NameSoci: {
		table: "soci",
		columns: []string{"nome", "cognome", "cf", "email", "telefono",
			"data_iscrizione", "certificato_scadenza", "attivita_principale",
			"note", "attivo"},
		headers: book.ColonneSoci,
	},
}

// Store mirrors tables into a SQLite database file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and applies pending migrations.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path not set")
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Snapshot writes are serialized by the caller already.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save implements mirror.Mirror: delete-all plus insert in one transaction.
func (s *Store) Save(ctx context.Context, t core.Table, name string) error {
	sc, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown mirror table %q", name)
	}
	if len(t.Columns) != len(sc.columns) {
		return fmt.Errorf("table %q: %d columns, schema has %d", name, len(t.Columns), len(sc.columns))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+sc.table); err != nil {
		return fmt.Errorf("clear %s: %w", sc.table, err)
	}
	insert := fmt.Sprintf("INSERT INTO %s (pos, %s) VALUES (?%s)",
		sc.table, strings.Join(sc.columns, ", "),
		strings.Repeat(", ?", len(sc.columns)))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, row := range t.Rows {
		args := make([]any, 0, len(row)+1)
		args = append(args, i)
		for _, cell := range row {
			args = append(args, cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", sc.table, i+1, err)
		}
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshots (name, saved_at) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET saved_at = excluded.saved_at",
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load implements mirror.Mirror. Tables never saved load as nil.
func (s *Store) Load(ctx context.Context) (mirror.State, error) {
	var state mirror.State
	for name := range schemas {
		t, ok, err := s.load(ctx, name)
		if err != nil {
			return mirror.State{}, err
		}
		if !ok {
			continue
		}
		switch name {
		case mirror.NameRicevute:
			state.Ricevute = t
		case mirror.NamePrimaNota:
			state.PrimaNota = t
		case mirror.NameSoci:
			state.Soci = t
		}
	}
	return state, nil
}

func (s *Store) load(ctx context.Context, name string) (*core.Table, bool, error) {
	sc := schemas[name]

	var savedAt string
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM snapshots WHERE name = ?", name).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("snapshot %s: %w", name, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY pos",
		strings.Join(sc.columns, ", "), sc.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, false, fmt.Errorf("query %s: %w", sc.table, err)
	}
	defer rows.Close()

	t := core.NewTable(sc.headers...)
	for rows.Next() {
		cells := make([]string, len(sc.columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, false, fmt.Errorf("scan %s: %w", sc.table, err)
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, false, fmt.Errorf("row %s: %w", sc.table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate %s: %w", sc.table, err)
	}
	return &t, true, nil
}
