package eval

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/fwojciec/courserec"
)

// Metrics holds the scores of one case or the means over a dataset.
// A metric that was not computed is NaN.
type Metrics struct {
	ReciprocalRank   float64
	Recall           float64
	AveragePrecision float64
	AnswerSimilarity float64
	ContextRelevance float64
	Faithfulness     float64
}

// CaseResult is the outcome of evaluating one case.
type CaseResult struct {
	Case      courserec.EvalCase
	Retrieved []string
	Answer    string
	Metrics
}

// Report holds per-case results and their means.
type Report struct {
	Cases []CaseResult
	Mean  Metrics
}

// Evaluator runs a dataset through the recommendation pipeline and scores
// each case.
//
// With a Recommender, the courses it cites are scored as the retrieval and
// its answer is judged. Without one, only Retriever is used and the
// answer metrics are NaN.
type Evaluator struct {
	Retriever   courserec.Retriever
	Recommender courserec.Recommender

	// Embedder computes answer similarity against case references. Optional.
	Embedder courserec.Embedder

	// Judge scores context relevance and faithfulness. Optional.
	Judge courserec.Judge

	TopK       int
	RecallMode RecallMode

	// FailOnJudgeError aborts the run on a judge failure. When false the
	// judged metric is NaN and excluded from the means.
	FailOnJudgeError bool

	Logger *slog.Logger
}

// Evaluate scores every case in ds.
func (e *Evaluator) Evaluate(ctx context.Context, ds *Dataset) (*Report, error) {
	if e.Retriever == nil && e.Recommender == nil {
		return nil, courserec.Errorf(courserec.EINVALID, "retriever or recommender required")
	}

	report := &Report{Cases: make([]CaseResult, 0, len(ds.Cases))}
	for i, c := range ds.Cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := e.evaluateCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i+1, err)
		}
		report.Cases = append(report.Cases, result)
	}
	report.Mean = mean(report.Cases)
	return report, nil
}

func (e *Evaluator) evaluateCase(ctx context.Context, c courserec.EvalCase) (CaseResult, error) {
	result := CaseResult{Case: c, Metrics: Metrics{
		ReciprocalRank:   math.NaN(),
		Recall:           math.NaN(),
		AveragePrecision: math.NaN(),
		AnswerSimilarity: math.NaN(),
		ContextRelevance: math.NaN(),
		Faithfulness:     math.NaN(),
	}}

	var courses []courserec.SearchResult
	if e.Recommender != nil {
		rec, err := e.Recommender.Recommend(ctx, c.Question)
		if err != nil {
			return result, err
		}
		courses = rec.Courses
		result.Answer = rec.Answer
	} else {
		var err error
		if courses, err = e.Retriever.Retrieve(ctx, c.Question, e.TopK); err != nil {
			return result, err
		}
	}

	contexts := make([]string, 0, len(courses))
	for _, r := range courses {
		if r.Course == nil {
			continue
		}
		result.Retrieved = append(result.Retrieved, r.Course.Code)
		contexts = append(contexts, r.Course.Code+" "+r.Course.EmbeddingText())
	}

	if len(c.Relevant) > 0 {
		result.ReciprocalRank = ReciprocalRank(c.Relevant, result.Retrieved)
		result.Recall = Recall(c.Relevant, result.Retrieved, e.RecallMode)
		result.AveragePrecision = AveragePrecision(c.Relevant, result.Retrieved)
	}

	if e.Embedder != nil && result.Answer != "" && c.Reference != "" {
		sim, err := SemanticAnswerSimilarity(ctx, e.Embedder, result.Answer, c.Reference)
		if err != nil {
			return result, fmt.Errorf("answer similarity: %w", err)
		}
		result.AnswerSimilarity = sim
	}

	if e.Judge == nil {
		return result, nil
	}

	score, err := e.Judge.ContextRelevance(ctx, c.Question, contexts)
	if result.ContextRelevance, err = e.judged(score, err, "context relevance", c.Question); err != nil {
		return result, err
	}

	if result.Answer != "" {
		score, err := e.Judge.Faithfulness(ctx, c.Question, contexts, result.Answer)
		if result.Faithfulness, err = e.judged(score, err, "faithfulness", c.Question); err != nil {
			return result, err
		}
	}
	return result, nil
}

// judged turns a judge failure into NaN unless FailOnJudgeError is set.
func (e *Evaluator) judged(score float64, err error, metric, question string) (float64, error) {
	if err == nil {
		return score, nil
	}
	if e.FailOnJudgeError {
		return math.NaN(), fmt.Errorf("%s: %w", metric, err)
	}
	e.logger().Warn("judge failed", "metric", metric, "question", question, "error", err)
	return math.NaN(), nil
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func mean(results []CaseResult) Metrics {
	pick := func(f func(Metrics) float64) float64 {
		var sum float64
		var n int
		for _, r := range results {
			if v := f(r.Metrics); !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n == 0 {
			return math.NaN()
		}
		return sum / float64(n)
	}

	return Metrics{
		ReciprocalRank:   pick(func(m Metrics) float64 { return m.ReciprocalRank }),
		Recall:           pick(func(m Metrics) float64 { return m.Recall }),
		AveragePrecision: pick(func(m Metrics) float64 { return m.AveragePrecision }),
		AnswerSimilarity: pick(func(m Metrics) float64 { return m.AnswerSimilarity }),
		ContextRelevance: pick(func(m Metrics) float64 { return m.ContextRelevance }),
		Faithfulness:     pick(func(m Metrics) float64 { return m.Faithfulness }),
	}
}
