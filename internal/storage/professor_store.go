// ABOUTME: Interface definition for the professor candidate source.
// ABOUTME: Implemented by the PostgREST client and the YAML fixture store.
package storage

import (
	"context"

	"github.com/2389-research/profsearch/internal/models"
)

// ListOptions controls pagination for ListProfessors.
type ListOptions struct {
	Limit  int // 0 = no limit
	Offset int
}

// ProfessorStore defines read access to professor records.
type ProfessorStore interface {
	// ListProfessors returns professors in store order. Every call reads fresh data.
	ListProfessors(ctx context.Context, opts ListOptions) ([]*models.Professor, error)

	// Close releases any resources held by the store.
	Close() error
}

// paginate applies offset and limit to an already loaded slice.
func paginate(professors []*models.Professor, opts ListOptions) []*models.Professor {
	if opts.Offset > 0 {
		if opts.Offset >= len(professors) {
			return []*models.Professor{}
		}
		professors = professors[opts.Offset:]
	}
	if opts.Limit > 0 && len(professors) > opts.Limit {
		professors = professors[:opts.Limit]
	}
	return professors
}
