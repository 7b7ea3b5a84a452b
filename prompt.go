package courserec

import (
	"strings"
	"text/template"
)

// SystemInstruction is sent alongside the recommendation prompt by
// generators that support a separate system role.
const SystemInstruction = "You are a helpful academic advisor recommending university courses. Answer based only on the courses provided."

const promptTemplate = `Given the following information about courses from the fall semester of {{.Year}} to the spring semester of {{.NextYear}} at {{.Institution}}, provide a descriptive answer to the question below. Please include the name, code, description, and link (in that order) of each course in your response. If the question asks for less courses than the amount listed, only describe the fewest courses needed. Do not prompt the user to follow up.

Courses:
{{range $i, $c := .Courses}}
    {{inc $i}}. {{$c.Name}}
    {{$c.Description}}
    Course code: {{$c.Code}}
    Link to catalog page: {{$c.Link}}
{{end}}
Question: {{.Question}}`

var recommendationPrompt = template.Must(template.New("recommendation").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(promptTemplate))

// PromptData holds the values rendered into the recommendation prompt.
type PromptData struct {
	Year        int
	Institution string
	Courses     []*Course
	Question    string
}

// BuildPrompt renders the recommendation prompt. Courses are listed in the
// given order, which is expected to be most relevant first.
func BuildPrompt(data PromptData) (string, error) {
	institution := data.Institution
	if institution == "" {
		institution = DefaultInstitution
	}

	question := strings.TrimSpace(data.Question)
	if !strings.HasSuffix(question, "?") {
		question += "?"
	}

	var sb strings.Builder
	err := recommendationPrompt.Execute(&sb, struct {
		Year        int
		NextYear    int
		Institution string
		Courses     []*Course
		Question    string
	}{
		Year:        data.Year,
		NextYear:    data.Year + 1,
		Institution: institution,
		Courses:     data.Courses,
		Question:    question,
	})
	if err != nil {
		return "", Errorf(EINTERNAL, "render prompt: %v", err)
	}
	return sb.String(), nil
}
