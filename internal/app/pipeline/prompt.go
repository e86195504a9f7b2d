package pipeline

import (
	"fmt"
	"strings"
	"text/template"
)

const defaultSummaryPrompt = `Please provide a concise summary of the following text:

{{.Transcript}}
`

const defaultActionItemsPrompt = `From the following meeting transcription, identify and list all action items. Format them as a simple sprint backlog, using bullet points. If possible, infer who is responsible and a rough due date (e.g., 'next week', 'end of sprint'). If no action items are found, state 'No action items identified.'.

---
{{.Transcript}}
---
`

// PromptData is what prompt templates can reference.
type PromptData struct {
	Transcript string
	Name       string
	Date       string
}

// Prompts holds the parsed templates for both generator stages.
type Prompts struct {
	summary     *template.Template
	actionItems *template.Template
}

// NewPrompts parses the given templates. Empty strings keep the built-in
// prompts.
func NewPrompts(summary, actionItems string) (*Prompts, error) {
	if strings.TrimSpace(summary) == "" {
		summary = defaultSummaryPrompt
	}
	if strings.TrimSpace(actionItems) == "" {
		actionItems = defaultActionItemsPrompt
	}

	s, err := template.New("summary").Option("missingkey=error").Parse(summary)
	if err != nil {
		return nil, fmt.Errorf("parse summary prompt: %w", err)
	}
	a, err := template.New("action_items").Option("missingkey=error").Parse(actionItems)
	if err != nil {
		return nil, fmt.Errorf("parse action items prompt: %w", err)
	}
	return &Prompts{summary: s, actionItems: a}, nil
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() *Prompts {
	p, err := NewPrompts("", "")
	if err != nil {
		panic(err)
	}
	return p
}

// Summary renders the summarization prompt.
func (p *Prompts) Summary(data PromptData) (string, error) {
	return render(p.summary, data)
}

// ActionItems renders the action item prompt.
func (p *Prompts) ActionItems(data PromptData) (string, error) {
	return render(p.actionItems, data)
}

func render(t *template.Template, data PromptData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return sb.String(), nil
}
