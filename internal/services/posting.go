// Package services coordinates the posting pipeline: validate, render, append
// to the book, then mirror the updated tables. The book is authoritative;
// mirror failures are reported but never roll anything back.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"asdgest/internal/book"
	"asdgest/internal/core"
	"asdgest/internal/mirror"
)

// Renderer produces the receipt document. A render failure aborts the whole
// issuance before anything is appended.
type Renderer interface {
	RenderReceipt(a core.Association, r core.Receipt) ([]byte, error)
}

// PostResult reports a completed posting. MirrorErr is advisory: the entry is
// in the book regardless.
type PostResult struct {
	Receipt   core.Receipt
	Entry     core.LedgerEntry
	MirrorErr error
}

// Service owns the book and serializes every mutation on it.
type Service struct {
	mu       sync.Mutex
	book     *book.Book
	assoc    core.Association
	mirror   mirror.Mirror
	renderer Renderer
	logger   *slog.Logger

	mirrorTimeout time.Duration
}

// New assembles the service. A nil mirror disables mirroring entirely.
func New(b *book.Book, assoc core.Association, m mirror.Mirror, r Renderer, logger *slog.Logger, mirrorTimeout time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if mirrorTimeout <= 0 {
		mirrorTimeout = 10 * time.Second
	}
	return &Service{
		book:          b,
		assoc:         assoc,
		mirror:        m,
		renderer:      r,
		logger:        logger,
		mirrorTimeout: mirrorTimeout,
	}
}

// Load restores the book from whatever the mirror holds. Called once at
// startup, before the service accepts requests.
func (s *Service) Load(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}
	state, err := s.mirror.Load(ctx)
	if err != nil {
		return fmt.Errorf("caricamento stato iniziale: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.book.Restore(state.Ricevute, state.PrimaNota, state.Soci); err != nil {
		return fmt.Errorf("ripristino registro: %w", err)
	}
	s.logger.Info("stato iniziale caricato",
		"ricevute", len(s.book.Receipts),
		"movimenti", len(s.book.Ledger),
		"soci", len(s.book.Members))
	return nil
}

// IssueReceipt runs the full issuance: build and validate, render the
// document, append receipt and derived entry, then mirror both tables.
func (s *Service) IssueReceipt(ctx context.Context, in book.ReceiptInput) (PostResult, error) {
	s.mu.Lock()
	r, err := s.book.BuildReceipt(in)
	if err != nil {
		s.mu.Unlock()
		return PostResult{}, err
	}
	if s.renderer != nil {
		pdf, err := s.renderer.RenderReceipt(s.assoc, r)
		if err != nil {
			s.mu.Unlock()
			return PostResult{}, err
		}
		r.PDF = pdf
	}
	entry := s.book.AppendReceipt(r)
	ricevute := s.book.ReceiptsTable()
	primaNota := s.book.PrimaNotaTable()
	s.mu.Unlock()

	res := PostResult{Receipt: r, Entry: entry}
	res.MirrorErr = s.save(ctx, map[string]core.Table{
		mirror.NameRicevute:  ricevute,
		mirror.NamePrimaNota: primaNota,
	})
	return res, nil
}

// RegisterExpense posts a manual outflow directly to the ledger.
func (s *Service) RegisterExpense(ctx context.Context, in book.ExpenseInput) (PostResult, error) {
	s.mu.Lock()
	entry, err := s.book.PostExpense(in)
	if err != nil {
		s.mu.Unlock()
		return PostResult{}, err
	}
	primaNota := s.book.PrimaNotaTable()
	s.mu.Unlock()

	res := PostResult{Entry: entry}
	res.MirrorErr = s.save(ctx, map[string]core.Table{
		mirror.NamePrimaNota: primaNota,
	})
	return res, nil
}

// AddMember registers a member and mirrors the registry. The advisory mirror
// error is returned alongside success.
func (s *Service) AddMember(ctx context.Context, m core.Member) (mirrorErr error, err error) {
	s.mu.Lock()
	if err := s.book.AddMember(m); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	soci := s.book.MembersTable()
	s.mu.Unlock()

	return s.save(ctx, map[string]core.Table{mirror.NameSoci: soci}), nil
}

// Backup mirrors all three tables in their current state, regardless of what
// changed since the last save.
func (s *Service) Backup(ctx context.Context) error {
	s.mu.Lock()
	tables := map[string]core.Table{
		mirror.NameRicevute:  s.book.ReceiptsTable(),
		mirror.NamePrimaNota: s.book.PrimaNotaTable(),
		mirror.NameSoci:      s.book.MembersTable(),
	}
	s.mu.Unlock()
	return s.save(ctx, tables)
}

// save pushes snapshots to the mirror concurrently, bounded by the configured
// timeout. The first error wins; all failures are logged.
func (s *Service) save(ctx context.Context, tables map[string]core.Table) error {
	if s.mirror == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.mirrorTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for name, t := range tables {
		g.Go(func() error {
			if err := s.mirror.Save(ctx, t, name); err != nil {
				s.logger.Warn("salvataggio mirror fallito", "tabella", name, "error", err)
				return fmt.Errorf("mirror %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
