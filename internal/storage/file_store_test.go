// ABOUTME: Tests for the YAML fixture professor store.
// ABOUTME: Uses temp directories to check parsing, stable IDs, pagination, and atomic export.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/2389-research/profsearch/internal/models"
)

const fixtureYAML = `profesores:
  - id: 0b9f3c52-6d0e-4a55-9a53-2f6c1f1d8e01
    nombre: Ana Gómez
    departamento: Math
    universidad: UNAM
    biografia: Loves linear algebra
    materias: [Álgebra Lineal, Cálculo]
  - nombre: Carlos Pérez
    departamento: CS
    biografia: Systems and networks
  - nombre: Lucía Torres
    departamento: Physics
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profesores.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestFileStoreListProfessors(t *testing.T) {
	store, err := NewFileStore(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer func() { _ = store.Close() }()

	professors, err := store.ListProfessors(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListProfessors error: %v", err)
	}
	if len(professors) != 3 {
		t.Fatalf("expected 3 professors, got %d", len(professors))
	}

	ana := professors[0]
	if ana.ID != "0b9f3c52-6d0e-4a55-9a53-2f6c1f1d8e01" {
		t.Errorf("unexpected id %s", ana.ID)
	}
	if ana.University != "UNAM" || len(ana.Subjects) != 2 {
		t.Errorf("unexpected Ana fields: %+v", ana)
	}

	carlos := professors[1]
	if _, err := uuid.Parse(carlos.ID); err != nil {
		t.Errorf("expected generated uuid for record without id, got %q", carlos.ID)
	}
	if carlos.Subjects == nil {
		t.Error("expected non-nil subjects slice")
	}

	again, err := store.ListProfessors(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListProfessors error: %v", err)
	}
	if again[1].ID != carlos.ID {
		t.Errorf("expected stable generated id, got %s then %s", carlos.ID, again[1].ID)
	}
}

func TestFileStorePagination(t *testing.T) {
	store, _ := NewFileStore(writeFixture(t, fixtureYAML))

	tests := []struct {
		opts  ListOptions
		names []string
	}{
		{ListOptions{Limit: 2}, []string{"Ana Gómez", "Carlos Pérez"}},
		{ListOptions{Offset: 1}, []string{"Carlos Pérez", "Lucía Torres"}},
		{ListOptions{Limit: 1, Offset: 2}, []string{"Lucía Torres"}},
		{ListOptions{Offset: 5}, nil},
	}

	for _, tt := range tests {
		professors, err := store.ListProfessors(context.Background(), tt.opts)
		if err != nil {
			t.Fatalf("ListProfessors(%+v) error: %v", tt.opts, err)
		}
		if len(professors) != len(tt.names) {
			t.Fatalf("ListProfessors(%+v): expected %d, got %d", tt.opts, len(tt.names), len(professors))
		}
		for i, name := range tt.names {
			if professors[i].Name != name {
				t.Errorf("ListProfessors(%+v)[%d] = %q, want %q", tt.opts, i, professors[i].Name, name)
			}
		}
	}
}

func TestFileStoreErrors(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty path")
	}

	missing, _ := NewFileStore(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := missing.ListProfessors(context.Background(), ListOptions{}); err == nil {
		t.Error("expected error for missing file")
	}

	bad, _ := NewFileStore(writeFixture(t, "profesores: [\n"))
	if _, err := bad.ListProfessors(context.Background(), ListOptions{}); err == nil {
		t.Error("expected error for malformed YAML")
	}

}

func TestFileStoreKeepsTextIDs(t *testing.T) {
	store, _ := NewFileStore(writeFixture(t, "profesores:\n  - id: \"xyz\"\n    nombre: A\n  - id: \"17\"\n    nombre: B\n"))

	professors, err := store.ListProfessors(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListProfessors error: %v", err)
	}
	if len(professors) != 2 || professors[0].ID != "xyz" || professors[1].ID != "17" {
		t.Errorf("expected ids kept verbatim, got %+v", professors)
	}
}

func TestFileStoreWriteProfessors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "export.yaml")
	store, _ := NewFileStore(path)

	in := []*models.Professor{
		{ID: "prof-17", Name: "Ana Gómez", Department: "Math", Bio: "Loves linear algebra", Subjects: []string{"Álgebra"}},
		{Name: "Carlos Pérez", Subjects: []string{}},
	}
	if err := store.WriteProfessors(in); err != nil {
		t.Fatalf("WriteProfessors error: %v", err)
	}

	out, err := store.ListProfessors(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListProfessors error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 professors, got %d", len(out))
	}
	if out[0].ID != "prof-17" || out[0].CompositeText() != in[0].CompositeText() {
		t.Errorf("round trip mismatch: %+v", out[0])
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the fixture file after write, got %d entries", len(entries))
	}
}
