package memory

import (
	"context"
	"testing"

	"asdgest/internal/core"
	"asdgest/internal/mirror"
)

func TestSaveAndLoad(t *testing.T) {
	s := New()
	tab := core.NewTable("Numero", "Intestatario")
	if err := tab.AppendRow("1", "Mario Rossi"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), tab, mirror.NameRicevute); err != nil {
		t.Fatalf("save: %v", err)
	}

	state, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.Ricevute == nil {
		t.Fatalf("ricevute not mirrored")
	}
	if !state.Ricevute.Equal(tab) {
		t.Fatalf("mirrored table mismatch: %+v", state.Ricevute)
	}
	if state.PrimaNota != nil || state.Soci != nil {
		t.Fatalf("unsaved tables should load as nil")
	}
}

func TestSaveReplaces(t *testing.T) {
	s := New()
	first := core.NewTable("Numero")
	_ = first.AppendRow("1")
	second := core.NewTable("Numero")
	_ = second.AppendRow("1")
	_ = second.AppendRow("2")

	ctx := context.Background()
	if err := s.Save(ctx, first, mirror.NamePrimaNota); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, second, mirror.NamePrimaNota); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Saved(mirror.NamePrimaNota)
	if !ok {
		t.Fatalf("nothing saved")
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected full replacement, got %d rows", len(got.Rows))
	}
}

func TestPreload(t *testing.T) {
	s := New()
	tab := core.NewTable("Nome", "Cognome")
	_ = tab.AppendRow("Mario", "Rossi")
	s.Preload(mirror.NameSoci, tab)

	state, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if state.Soci == nil || !state.Soci.Equal(tab) {
		t.Fatalf("preloaded soci not returned")
	}
}
