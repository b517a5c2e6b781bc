// ABOUTME: Keyword fallback ranking over an in-memory bleve index of professor profiles.
// ABOUTME: Text is accent-folded before indexing so "algebra" matches "Álgebra".
package search

import (
	"fmt"
	"sort"
	"strconv"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/models"
)

const keywordFuzziness = 1

// profileDocument is what gets indexed for one professor.
type profileDocument struct {
	Text string `json:"text"`
}

func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// keywordRank indexes professors in memory and returns the best matches for an already folded query.
func keywordRank(professors []*models.Professor, query string, limit int) ([]models.RankedProfessor, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	defer func() { _ = index.Close() }()

	batch := index.NewBatch()
	for i, p := range professors {
		text := foldText(p.CompositeText())
		if text == "" {
			continue
		}
		if err := batch.Index(strconv.Itoa(i), profileDocument{Text: text}); err != nil {
			return nil, fmt.Errorf("failed to index professor %s: %w", p.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to index professors: %w", err)
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("text")
	matchQuery.SetFuzziness(keywordFuzziness)

	// Every hit is requested so equal scores can be cut by store order below, not by doc id.
	searchReq := bleve.NewSearchRequest(matchQuery)
	searchReq.Size = len(professors)

	searchResult, err := index.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	type hit struct {
		pos   int
		score float64
	}
	hits := make([]hit, 0, len(searchResult.Hits))
	for _, h := range searchResult.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(professors) {
			continue
		}
		hits = append(hits, hit{pos: pos, score: h.Score})
	}

	// Equal scores fall back to store order.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]models.RankedProfessor, 0, len(hits))
	for _, h := range hits {
		results = append(results, models.NewRankedProfessor(professors[h.pos], h.score))
	}
	return results, nil
}

// foldText normalizes text and strips combining marks.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return embeddings.NormalizeText(folded)
}
