// ABOUTME: Analyst sequences the pipeline from objective to enhanced report
// ABOUTME: Questions, queries, execution, ordering, report, then enhancement
package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/harper/datastory/internal/extract"
	"github.com/harper/datastory/internal/llm"
	"github.com/harper/datastory/internal/models"
)

// Generator is every generation stage the pipeline drives. *llm.Stages
// satisfies it.
type Generator interface {
	Narrator
	GenerateQuestions(ctx context.Context, in llm.QuestionsInput) (string, error)
	GenerateQuery(ctx context.Context, in llm.QueryInput) (string, error)
	GenerateReport(ctx context.Context, in llm.ReportInput) (string, error)
	EnhanceReport(ctx context.Context, report string) (string, error)
	ExplainMethodology(ctx context.Context, question, query string) (string, error)
	ExecutiveSummary(ctx context.Context, report string) (string, error)
}

// Executor runs one query and never fails; errors come back as a
// QueryFailed answer
type Executor interface {
	Execute(ctx context.Context, query string, maxRows int) models.Answer
}

// ProgressStage names a point in the pipeline
type ProgressStage string

const (
	StageQuestions   ProgressStage = "generating_questions"
	StageQueries     ProgressStage = "generating_queries"
	StageExecuting   ProgressStage = "executing_queries"
	StageOrdering    ProgressStage = "ordering_facts"
	StageReport      ProgressStage = "generating_report"
	StageEnhancing   ProgressStage = "enhancing_report"
	StageMethodology ProgressStage = "explaining_methodology"
	StageSummary     ProgressStage = "summarizing_report"
	StageDone        ProgressStage = "done"
)

// Progress is a snapshot reported at each stage transition
type Progress struct {
	Stage     ProgressStage
	Completed int
	Total     int
}

// ProgressFunc receives progress updates. It is called from the goroutine
// running Run.
type ProgressFunc func(Progress)

// AnalystConfig holds the knobs for a pipeline run
type AnalystConfig struct {
	Logger           *slog.Logger
	Progress         ProgressFunc
	Concurrency      int  // bound on parallel generation and execution (default 4)
	MaxRows          int  // row ceiling per query (default 10)
	Methodology      bool // explain each kept query
	ExecutiveSummary bool // condense the enhanced report
}

// Request describes one analysis
type Request struct {
	Objective     string
	TableName     string
	Schema        models.Schema
	QuestionCount int
}

// Analysis is everything a run produced. Facts holds every question in
// generation order, failures included; Ordered holds the successful facts
// in narrative order.
type Analysis struct {
	RunID          string          `json:"run_id"`
	Objective      string          `json:"objective"`
	Questions      []string        `json:"questions"`
	Queries        []string        `json:"queries"`
	Facts          models.FactList `json:"facts"`
	Ordered        Ordering        `json:"ordered"`
	Report         string          `json:"report"`
	EnhancedReport string          `json:"enhanced_report"`
	Completed      int             `json:"completed"`
	Total          int             `json:"total"`
	Methodology    []string        `json:"methodology,omitempty"` // aligned with Ordered.Facts
	Summary        string          `json:"summary,omitempty"`
}

// Analyst runs the end-to-end pipeline
type Analyst struct {
	gen     Generator
	exec    Executor
	orderer *FactOrderer
	cfg     AnalystConfig
	log     *slog.Logger
}

const (
	defaultConcurrency = 4
	defaultMaxRows     = 10
)

// NewAnalyst creates an Analyst over the given generator and executor
func NewAnalyst(gen Generator, exec Executor, cfg AnalystConfig) *Analyst {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultMaxRows
	}
	return &Analyst{
		gen:     gen,
		exec:    exec,
		orderer: NewFactOrderer(gen, cfg.Logger),
		cfg:     cfg,
		log:     cfg.Logger,
	}
}

// Run executes every stage in sequence. Failed queries are dropped before
// ordering and never abort the run; generation errors do.
func (a *Analyst) Run(ctx context.Context, req Request) (*Analysis, error) {
	if req.Objective == "" {
		return nil, fmt.Errorf("objective cannot be empty")
	}
	if req.TableName == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	result := &Analysis{
		RunID:     uuid.New().String(),
		Objective: req.Objective,
	}
	log := a.log.With("run_id", result.RunID)
	log.Info("analysis started", "table", req.TableName, "questions", req.QuestionCount)

	// Stage 1: questions
	a.progress(Progress{Stage: StageQuestions})
	raw, err := a.gen.GenerateQuestions(ctx, llm.QuestionsInput{
		Objective: req.Objective,
		TableName: req.TableName,
		Schema:    req.Schema,
		Count:     req.QuestionCount,
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	result.Questions = extract.Questions(raw)
	result.Total = len(result.Questions)
	log.Debug("questions extracted", "count", result.Total)

	// Stage 2: one query per question
	a.progress(Progress{Stage: StageQueries, Total: result.Total})
	result.Queries, err = a.generateQueries(ctx, req, result.Questions)
	if err != nil {
		return nil, err
	}

	// Stage 3: execute, reassembled in question order
	a.progress(Progress{Stage: StageExecuting, Total: result.Total})
	answers, err := a.executeQueries(ctx, result.Queries)
	if err != nil {
		return nil, err
	}

	result.Facts = make(models.FactList, 0, len(answers))
	for i, answer := range answers {
		fact, err := models.NewFact(result.Questions[i], answer)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if !answer.OK() {
			log.Debug("query failed", "question", fact.Question, "error", answer.Reason)
		}
		result.Facts = append(result.Facts, fact)
	}
	result.Completed = result.Facts.CountSucceeded()
	log.Info("queries executed", "completed", result.Completed, "total", result.Total)

	// Stage 4: summarize and order the successful facts
	a.progress(Progress{Stage: StageOrdering, Completed: result.Completed, Total: result.Total})
	succeeded, queries := a.succeeded(result.Facts, result.Queries)
	result.Ordered, err = a.orderer.OrderFacts(ctx, succeeded)
	if err != nil {
		return nil, fmt.Errorf("order facts: %w", err)
	}

	// Stage 5: draft report
	a.progress(Progress{Stage: StageReport, Completed: result.Completed, Total: result.Total})
	result.Report, err = a.gen.GenerateReport(ctx, llm.ReportInput{
		Objective: req.Objective,
		Narrative: result.Ordered.Narrative,
		Facts:     result.Ordered.Facts,
	})
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	// Stage 6: enhance
	a.progress(Progress{Stage: StageEnhancing, Completed: result.Completed, Total: result.Total})
	result.EnhancedReport, err = a.gen.EnhanceReport(ctx, result.Report)
	if err != nil {
		return nil, fmt.Errorf("enhance report: %w", err)
	}

	if a.cfg.Methodology {
		a.progress(Progress{Stage: StageMethodology, Completed: result.Completed, Total: result.Total})
		ordered := make([]string, len(result.Ordered.Rank))
		for i, idx := range result.Ordered.Rank {
			ordered[i] = queries[idx]
		}
		result.Methodology, err = a.explain(ctx, result.Ordered.Facts, ordered)
		if err != nil {
			return nil, err
		}
	}

	if a.cfg.ExecutiveSummary {
		a.progress(Progress{Stage: StageSummary, Completed: result.Completed, Total: result.Total})
		result.Summary, err = a.gen.ExecutiveSummary(ctx, result.EnhancedReport)
		if err != nil {
			return nil, fmt.Errorf("executive summary: %w", err)
		}
	}

	a.progress(Progress{Stage: StageDone, Completed: result.Completed, Total: result.Total})
	log.Info("analysis finished", "facts_used", len(result.Ordered.Facts))
	return result, nil
}

// generateQueries asks for one query per question in parallel. A response
// with no recognizable query becomes an empty query, which fails at
// execution.
func (a *Analyst) generateQueries(ctx context.Context, req Request, questions []string) ([]string, error) {
	queries := make([]string, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, q := range questions {
		g.Go(func() error {
			raw, err := a.gen.GenerateQuery(gctx, llm.QueryInput{
				Question:  q,
				TableName: req.TableName,
				Schema:    req.Schema,
			})
			if err != nil {
				return fmt.Errorf("generate query for question %d: %w", i+1, err)
			}
			query, ok := extract.FirstQuery(raw)
			if !ok {
				a.log.Warn("no query found in response", "question", q)
			}
			queries[i] = query
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return queries, nil
}

// executeQueries runs every query on a bounded pool. Answers come back in
// submission order.
func (a *Analyst) executeQueries(ctx context.Context, queries []string) ([]models.Answer, error) {
	pool := pond.NewResultPool[models.Answer](a.cfg.Concurrency)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	for _, query := range queries {
		group.Submit(func() models.Answer {
			return a.exec.Execute(ctx, query, a.cfg.MaxRows)
		})
	}

	answers, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("execute queries: %w", err)
	}
	return answers, nil
}

// succeeded filters facts to the successful ones and returns the queries
// that produced them, index-aligned
func (a *Analyst) succeeded(facts models.FactList, queries []string) (models.FactList, []string) {
	kept := facts.Succeeded()
	keptQueries := make([]string, 0, len(kept))
	for i, f := range facts {
		if f.Answer.OK() {
			keptQueries = append(keptQueries, queries[i])
		}
	}
	return kept, keptQueries
}

func (a *Analyst) explain(ctx context.Context, facts models.FactList, queries []string) ([]string, error) {
	notes := make([]string, len(facts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, f := range facts {
		g.Go(func() error {
			note, err := a.gen.ExplainMethodology(gctx, f.Question, queries[i])
			if err != nil {
				return fmt.Errorf("explain methodology for %q: %w", f.Question, err)
			}
			notes[i] = note
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return notes, nil
}

func (a *Analyst) progress(p Progress) {
	if a.cfg.Progress != nil {
		a.cfg.Progress(p)
	}
}
