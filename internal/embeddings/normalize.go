// ABOUTME: Text and vector normalization applied before and after embedding.
// ABOUTME: Text is NFKC-folded, lowercased, stripped of punctuation, and whitespace-collapsed.
package embeddings

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares text for embedding. Punctuation becomes whitespace,
// runs of whitespace collapse to one space, and the result is trimmed.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.ToLower(normed)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.Join(strings.Fields(normed), " ")
}

// NormalizeVector scales vec to unit Euclidean length in place and returns it.
// An all-zero vector is returned unchanged.
func NormalizeVector(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
