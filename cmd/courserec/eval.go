package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/eval"
)

// Run executes the eval command.
func (c *EvalCmd) Run(deps *Dependencies) error {
	ds, err := eval.LoadDataset(c.Dataset)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	mode, err := eval.ParseRecallMode(c.RecallMode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	e := &eval.Evaluator{
		Retriever:        deps.Retriever,
		RecallMode:       mode,
		FailOnJudgeError: c.FailOnJudgeError,
		Logger:           deps.Logger,
	}
	if !c.RetrievalOnly {
		e.Recommender = deps.Recommender
		e.Embedder = deps.Embedder
		e.Judge = deps.Judge
	}

	report, err := e.Evaluate(deps.Ctx, ds)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	return writeReport(deps.Stdout, report)
}

func writeReport(w io.Writer, report *eval.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUESTION\tMRR\tRECALL\tMAP\tSAS\tRELEVANCE\tFAITHFULNESS")
	for _, r := range report.Cases {
		writeMetrics(tw, truncate(r.Case.Question, 48), r.Metrics)
	}
	writeMetrics(tw, "mean", report.Mean)
	return tw.Flush()
}

func writeMetrics(w io.Writer, label string, m eval.Metrics) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", label,
		score(m.ReciprocalRank), score(m.Recall), score(m.AveragePrecision),
		score(m.AnswerSimilarity), score(m.ContextRelevance), score(m.Faithfulness))
}

// score formats a metric, showing "-" for metrics that were not computed.
func score(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
