// ABOUTME: Tests for professor composite text construction.
// ABOUTME: Covers field ordering, optional fields, and blank subjects.
package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCompositeTextAllFields(t *testing.T) {
	p := &Professor{
		Name:       "Ana Gómez",
		Department: "Math",
		University: "UNAM",
		Bio:        "Loves linear algebra",
		Subjects:   []string{"Álgebra Lineal", "Cálculo"},
	}

	got := p.CompositeText()
	want := "Ana Gómez. Math. UNAM. Loves linear algebra. Álgebra Lineal, Cálculo"
	if got != want {
		t.Errorf("CompositeText() = %q, want %q", got, want)
	}
}

func TestCompositeTextOptionalFields(t *testing.T) {
	tests := []struct {
		name string
		p    Professor
		want string
	}{
		{"name only", Professor{Name: "Carlos Pérez"}, "Carlos Pérez"},
		{"no bio", Professor{Name: "Carlos Pérez", Department: "CS"}, "Carlos Pérez. CS"},
		{"blank subjects", Professor{Name: "X", Subjects: []string{" ", ""}}, "X"},
		{"all empty", Professor{}, ""},
		{"whitespace name", Professor{Name: "   ", Subjects: nil}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.CompositeText(); got != tt.want {
				t.Errorf("CompositeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRankedProfessorJSON(t *testing.T) {
	p := &Professor{ID: "42", Name: "Ana", Subjects: []string{"Álgebra"}}
	data, err := json.Marshal(NewRankedProfessor(p, 0.75))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	text := string(data)
	for _, key := range []string{`"nombre":"Ana"`, `"score":0.75`, `"materias":["Álgebra"]`, `"id":"42"`} {
		if !strings.Contains(text, key) {
			t.Errorf("expected %s in %s", key, text)
		}
	}
}
