// Package eval scores retrieval and generated recommendations against a
// labelled dataset of questions.
package eval

import (
	"context"

	"github.com/fwojciec/courserec"
)

// RecallMode selects how Recall treats multiple relevant courses.
type RecallMode string

const (
	// SingleHit scores 1 when any relevant course was retrieved.
	SingleHit RecallMode = "single_hit"

	// MultiHit scores the fraction of relevant courses retrieved.
	MultiHit RecallMode = "multi_hit"
)

// ParseRecallMode converts s into a RecallMode. An empty string selects
// SingleHit.
func ParseRecallMode(s string) (RecallMode, error) {
	switch RecallMode(s) {
	case "", SingleHit:
		return SingleHit, nil
	case MultiHit:
		return MultiHit, nil
	default:
		return "", courserec.Errorf(courserec.EINVALID, "unknown recall mode %q", s)
	}
}

// ReciprocalRank returns 1/rank of the first retrieved code that is
// relevant, or 0 when none is.
func ReciprocalRank(relevant, retrieved []string) float64 {
	want := toSet(relevant)
	for i, code := range retrieved {
		if want[code] {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// Recall scores how many relevant codes were retrieved. Cases without
// relevant codes score 0.
func Recall(relevant, retrieved []string, mode RecallMode) float64 {
	want := toSet(relevant)
	if len(want) == 0 {
		return 0
	}

	hits := 0
	for code := range toSet(retrieved) {
		if want[code] {
			hits++
		}
	}

	if mode == MultiHit {
		return float64(hits) / float64(len(want))
	}
	if hits > 0 {
		return 1
	}
	return 0
}

// AveragePrecision averages precision@i over the ranks i at which a
// relevant code was retrieved.
func AveragePrecision(relevant, retrieved []string) float64 {
	want := toSet(relevant)

	var hits int
	var sum float64
	for i, code := range retrieved {
		if want[code] {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}
	if hits == 0 {
		return 0
	}
	return sum / float64(hits)
}

// SemanticAnswerSimilarity returns the cosine similarity between the
// embeddings of answer and reference.
func SemanticAnswerSimilarity(ctx context.Context, embedder courserec.Embedder, answer, reference string) (float64, error) {
	vectors, err := embedder.EmbedDocuments(ctx, []string{answer, reference})
	if err != nil {
		return 0, err
	}
	if len(vectors) != 2 {
		return 0, courserec.Errorf(courserec.EINTERNAL, "expected 2 embeddings, got %d", len(vectors))
	}
	return float64(courserec.CosineSimilarity(vectors[0], vectors[1])), nil
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}
