package rag

import (
	"context"
	"strings"

	"github.com/fwojciec/courserec"
)

var _ courserec.Recommender = (*Recommender)(nil)

// Recommender answers questions with the top retrieved courses as context.
type Recommender struct {
	Retriever courserec.Retriever
	Generator courserec.Generator

	Year        int
	Institution string
	TopK        int
}

// Recommend retrieves courses for question and asks the generator to
// describe the ones that answer it.
func (r *Recommender) Recommend(ctx context.Context, question string) (*courserec.Recommendation, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, courserec.Errorf(courserec.EINVALID, "question required")
	}

	results, err := r.Retriever.Retrieve(ctx, question, r.TopK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, courserec.Errorf(courserec.ENOTFOUND, "no courses indexed for %s; run index first", courserec.TermLabel(r.Year))
	}

	courses := make([]*courserec.Course, len(results))
	for i, res := range results {
		courses[i] = res.Course
	}

	prompt, err := courserec.BuildPrompt(courserec.PromptData{
		Year:        r.Year,
		Institution: r.Institution,
		Courses:     courses,
		Question:    question,
	})
	if err != nil {
		return nil, err
	}

	answer, err := r.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &courserec.Recommendation{
		Question: question,
		Answer:   answer,
		Courses:  results,
	}, nil
}
