package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/courserec"
	"google.golang.org/genai"
)

// Ensure Judge implements courserec.Judge at compile time.
var _ courserec.Judge = (*Judge)(nil)

// Judge scores retrieval and answers with a Gemini model constrained to a
// JSON response schema.
//
// Context relevance asks, for every retrieved context, whether it holds
// any statement relevant to the question; the score is 1 when at least one
// does and 0 otherwise. Faithfulness splits the answer into statements and asks whether
// each can be inferred from the contexts; the score is the fraction that
// can.
type Judge struct {
	models Models
	model  string
}

// NewJudge creates a new Judge. An empty model selects DefaultModel.
func NewJudge(models Models, model string) *Judge {
	if model == "" {
		model = DefaultModel
	}
	return &Judge{models: models, model: model}
}

type relevanceVerdict struct {
	Contexts []struct {
		RelevantStatements []string `json:"relevant_statements"`
	} `json:"contexts"`
}

type faithfulnessVerdict struct {
	Statements []struct {
		Statement string `json:"statement"`
		Supported bool   `json:"supported"`
	} `json:"statements"`
}

// ContextRelevance reports 1 if any context is relevant to question.
func (j *Judge) ContextRelevance(ctx context.Context, question string, contexts []string) (float64, error) {
	if len(contexts) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString("For each numbered context below, extract the statements that help answer the question. ")
	sb.WriteString("Return one entry per context, in order, with an empty list when nothing is relevant.\n\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", question)
	writeContexts(&sb, contexts)

	var verdict relevanceVerdict
	if err := j.ask(ctx, sb.String(), relevanceSchema(), &verdict); err != nil {
		return 0, err
	}
	if len(verdict.Contexts) != len(contexts) {
		return 0, courserec.Errorf(courserec.EINTERNAL, "judge returned %d verdicts for %d contexts", len(verdict.Contexts), len(contexts))
	}

	for _, c := range verdict.Contexts {
		if len(c.RelevantStatements) > 0 {
			return 1, nil
		}
	}
	return 0, nil
}

// Faithfulness scores how much of answer is supported by contexts.
func (j *Judge) Faithfulness(ctx context.Context, question string, contexts []string, answer string) (float64, error) {
	var sb strings.Builder
	sb.WriteString("Split the answer into standalone factual statements. For each statement decide whether it can be inferred from the contexts alone.\n\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", question)
	writeContexts(&sb, contexts)
	fmt.Fprintf(&sb, "\nAnswer: %s\n", answer)

	var verdict faithfulnessVerdict
	if err := j.ask(ctx, sb.String(), faithfulnessSchema(), &verdict); err != nil {
		return 0, err
	}
	if len(verdict.Statements) == 0 {
		return 0, nil
	}

	supported := 0
	for _, s := range verdict.Statements {
		if s.Supported {
			supported++
		}
	}
	return float64(supported) / float64(len(verdict.Statements)), nil
}

func (j *Judge) ask(ctx context.Context, prompt string, schema *genai.Schema, v any) error {
	temp := float32(0)
	result, err := j.models.GenerateContent(ctx, j.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:      &temp,
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	)
	if err != nil {
		return err
	}
	if result == nil {
		return courserec.Errorf(courserec.EINTERNAL, "gemini returned nil result")
	}

	if err := json.Unmarshal([]byte(result.Text()), v); err != nil {
		return courserec.Errorf(courserec.EINTERNAL, "judge returned invalid JSON: %v", err)
	}
	return nil
}

func writeContexts(sb *strings.Builder, contexts []string) {
	sb.WriteString("Contexts:\n")
	for i, c := range contexts {
		fmt.Fprintf(sb, "%d. %s\n", i+1, c)
	}
}

func relevanceSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"contexts": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"relevant_statements": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"relevant_statements"},
				},
			},
		},
		Required: []string{"contexts"},
	}
}

func faithfulnessSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"statements": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"statement": {Type: genai.TypeString},
						"supported": {Type: genai.TypeBoolean},
					},
					Required: []string{"statement", "supported"},
				},
			},
		},
		Required: []string{"statements"},
	}
}
