// ABOUTME: Core data models for professors and ranked search results.
// ABOUTME: Builds the composite description text that gets embedded for semantic search.
package models

import "strings"

// Professor is a search candidate as read from the backing store.
// ID is the store's primary key kept verbatim (uuid, integer, or text).
// Department, University, Bio and Subjects are empty when the store omits them.
type Professor struct {
	ID         string   `json:"id"`
	Name       string   `json:"nombre"`
	Department string   `json:"departamento,omitempty"`
	University string   `json:"universidad,omitempty"`
	Bio        string   `json:"biografia,omitempty"`
	Subjects   []string `json:"materias"`
}

// CompositeText joins the professor's descriptive fields into the text used for embedding.
// Absent fields contribute nothing; an all-empty professor yields "".
func (p *Professor) CompositeText() string {
	var parts []string
	for _, field := range []string{p.Name, p.Department, p.University, p.Bio} {
		if f := strings.TrimSpace(field); f != "" {
			parts = append(parts, f)
		}
	}

	var subjects []string
	for _, s := range p.Subjects {
		if s = strings.TrimSpace(s); s != "" {
			subjects = append(subjects, s)
		}
	}
	if len(subjects) > 0 {
		parts = append(parts, strings.Join(subjects, ", "))
	}

	return strings.Join(parts, ". ")
}

// RankedProfessor is a professor paired with its relevance score.
type RankedProfessor struct {
	Professor
	Score float64 `json:"score"`
}

// NewRankedProfessor copies p and attaches score.
func NewRankedProfessor(p *Professor, score float64) RankedProfessor {
	return RankedProfessor{Professor: *p, Score: score}
}
