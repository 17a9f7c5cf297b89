// ABOUTME: Typed adapters, one per pipeline stage, over the Completer
// ABOUTME: Each renders its prompt template and returns the raw generated text
package llm

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/harper/datastory/internal/models"
)

// DefaultMaxTokens is the output ceiling used when none is configured
const DefaultMaxTokens = 2048

// DefaultTemperatures is the per-stage stochasticity. Query and methodology
// generation need fidelity; rearrangement and enhancement benefit from variety.
var DefaultTemperatures = map[string]float32{
	StageQuestions:        0.4,
	StageQuery:            0.2,
	StageSummarize:        0.3,
	StageRearrange:        0.7,
	StageReport:           0.3,
	StageEnhance:          0.5,
	StageMethodology:      0.0,
	StageExecutiveSummary: 0.3,
}

// Stage is one parameterized generation step
type Stage struct {
	Name        string
	Template    *template.Template
	Temperature float32
	MaxTokens   int
}

// Stages exposes every generation adapter the pipeline uses
type Stages struct {
	completer Completer
	stages    map[string]*Stage
}

// QuestionsInput feeds question generation
type QuestionsInput struct {
	Objective string
	TableName string
	Schema    models.Schema
	Count     int
}

// QueryInput feeds query generation for one question
type QueryInput struct {
	Question  string
	TableName string
	Schema    models.Schema
}

// ReportInput feeds draft report generation
type ReportInput struct {
	Objective string
	Narrative string
	Facts     models.FactList
}

// NewStages parses every template in prompts and binds it to completer.
// maxTokens <= 0 selects DefaultMaxTokens.
func NewStages(completer Completer, prompts Prompts, maxTokens int) (*Stages, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	s := &Stages{completer: completer, stages: make(map[string]*Stage, len(DefaultTemperatures))}
	for name, temperature := range DefaultTemperatures {
		text, ok := prompts[name]
		if !ok {
			return nil, fmt.Errorf("missing prompt for stage %q", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s prompt: %w", name, err)
		}
		s.stages[name] = &Stage{
			Name:        name,
			Template:    tmpl,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		}
	}
	return s, nil
}

// Stage returns the named stage for inspection or tuning
func (s *Stages) Stage(name string) (*Stage, bool) {
	st, ok := s.stages[name]
	return st, ok
}

func (s *Stages) run(ctx context.Context, name string, data any) (string, error) {
	st, ok := s.stages[name]
	if !ok {
		return "", fmt.Errorf("unknown stage %q", name)
	}

	var buf bytes.Buffer
	if err := st.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}

	out, err := s.completer.Complete(ctx, CompletionRequest{
		Stage:       name,
		Prompt:      buf.String(),
		Temperature: st.Temperature,
		MaxTokens:   st.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s stage: %w", name, err)
	}
	return out, nil
}

// GenerateQuestions asks for a numbered list of analytical questions
func (s *Stages) GenerateQuestions(ctx context.Context, in QuestionsInput) (string, error) {
	return s.run(ctx, StageQuestions, in)
}

// GenerateQuery asks for a SQL query answering one question
func (s *Stages) GenerateQuery(ctx context.Context, in QueryInput) (string, error) {
	return s.run(ctx, StageQuery, in)
}

// Summarize condenses the numbered fact text
func (s *Stages) Summarize(ctx context.Context, facts string) (string, error) {
	return s.run(ctx, StageSummarize, struct{ Facts string }{facts})
}

// Rearrange proposes an ordering and narrative over summarized facts
func (s *Stages) Rearrange(ctx context.Context, facts string) (string, error) {
	return s.run(ctx, StageRearrange, struct{ Facts string }{facts})
}

// GenerateReport drafts the analysis from ordered facts and the narrative
func (s *Stages) GenerateReport(ctx context.Context, in ReportInput) (string, error) {
	data := in.Facts.Numbered()
	if len(in.Facts) == 0 {
		data = "(no data: none of the queries returned results)"
	}
	return s.run(ctx, StageReport, struct {
		Objective string
		Narrative string
		Data      string
	}{in.Objective, in.Narrative, data})
}

// EnhanceReport rewrites a draft report to be more engaging
func (s *Stages) EnhanceReport(ctx context.Context, report string) (string, error) {
	return s.run(ctx, StageEnhance, struct{ Report string }{report})
}

// ExplainMethodology describes how a query answers its question
func (s *Stages) ExplainMethodology(ctx context.Context, question, query string) (string, error) {
	return s.run(ctx, StageMethodology, struct{ Question, Query string }{question, query})
}

// ExecutiveSummary condenses a report into five bullets
func (s *Stages) ExecutiveSummary(ctx context.Context, report string) (string, error) {
	return s.run(ctx, StageExecutiveSummary, struct{ Report string }{report})
}
