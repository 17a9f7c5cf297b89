// ABOUTME: CLI command that runs the full analysis pipeline on one table
// ABOUTME: Prints the enhanced report, or the whole analysis as JSON
package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/datastory/internal/core"
	"github.com/harper/datastory/internal/storage/sqlite"
)

var (
	analyzeDB          string
	analyzeTable       string
	analyzeQuestions   int
	analyzeMaxRows     int
	analyzeMethodology bool
	analyzeSummary     bool
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <objective>",
		Short: "Analyze a table and write a data story",
		Long: `Analyze a SQLite table against an objective.

Generates questions about the table, answers each with a SQL query,
orders the answers into a narrative, and writes a report. Queries that
fail are skipped; the report uses whatever succeeded.

Examples:
  datastory analyze --db salaries.db --table salaries "Find overpaid employees"
  datastory analyze --db salaries.db --table salaries --questions 10 --summary "Spot pay gaps"
  datastory analyze --db salaries.db --table salaries --format json "Spot pay gaps"`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&analyzeDB, "db", "", "Path to the SQLite database")
	cmd.Flags().StringVar(&analyzeTable, "table", "", "Table to analyze")
	cmd.Flags().IntVar(&analyzeQuestions, "questions", 7, "Number of questions to generate")
	cmd.Flags().IntVar(&analyzeMaxRows, "max-rows", 0, "Row limit per query (default from DATASTORY_MAX_ROWS)")
	cmd.Flags().BoolVar(&analyzeMethodology, "methodology", false, "Explain how each query answers its question")
	cmd.Flags().BoolVar(&analyzeSummary, "summary", false, "Add a five-bullet executive summary")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	objective := strings.TrimSpace(args[0])
	if objective == "" {
		return fmt.Errorf("objective cannot be empty")
	}
	if err := validatePositiveInt(analyzeQuestions, "questions"); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-rows") {
		if err := validatePositiveInt(analyzeMaxRows, "max-rows"); err != nil {
			return err
		}
		cfg.MaxRows = analyzeMaxRows
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(analyzeDB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()
	db.SetQueryTimeout(cfg.QueryTimeout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schema, err := db.Schema(ctx, analyzeTable)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	analyst := core.NewAnalyst(gen, db, core.AnalystConfig{
		Logger:           logger,
		Progress:         progressPrinter(cmd.ErrOrStderr()),
		Concurrency:      cfg.Concurrency,
		MaxRows:          cfg.MaxRows,
		Methodology:      analyzeMethodology,
		ExecutiveSummary: analyzeSummary,
	})

	analysis, err := analyst.Run(ctx, core.Request{
		Objective:     objective,
		TableName:     analyzeTable,
		Schema:        schema,
		QuestionCount: analyzeQuestions,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), analysis)
	}
	printAnalysis(cmd.OutOrStdout(), cmd.ErrOrStderr(), analysis)
	return nil
}

// progressPrinter prints stage markers when verbose
func progressPrinter(w io.Writer) core.ProgressFunc {
	return func(p core.Progress) {
		if !verbose {
			return
		}
		switch p.Stage {
		case core.StageQuestions:
			fmt.Fprintln(w, "==> Generating questions")
		case core.StageQueries:
			fmt.Fprintf(w, "==> Generating %d queries\n", p.Total)
		case core.StageExecuting:
			fmt.Fprintf(w, "==> Executing %d queries\n", p.Total)
		case core.StageOrdering:
			fmt.Fprintf(w, "==> %d/%d queries completed; ordering facts\n", p.Completed, p.Total)
		case core.StageReport:
			fmt.Fprintln(w, "==> Writing report")
		case core.StageEnhancing:
			fmt.Fprintln(w, "==> Enhancing report")
		case core.StageMethodology:
			fmt.Fprintln(w, "==> Explaining methodology")
		case core.StageSummary:
			fmt.Fprintln(w, "==> Writing executive summary")
		case core.StageDone:
			fmt.Fprintln(w, "==> Done")
		}
	}
}

// printAnalysis writes the human-readable form of an analysis to w. The
// verbose run status goes to status alongside the progress markers.
func printAnalysis(w, status io.Writer, a *core.Analysis) {
	if a.Summary != "" {
		fmt.Fprintf(w, "EXECUTIVE SUMMARY\n\n%s\n\n", a.Summary)
	}

	fmt.Fprintln(w, a.EnhancedReport)

	if len(a.Methodology) > 0 {
		fmt.Fprintf(w, "\nMETHODOLOGY\n\n")
		for i, note := range a.Methodology {
			question := ""
			if i < len(a.Ordered.Facts) {
				question = a.Ordered.Facts[i].Question
			}
			fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, truncate(question, 100), note)
		}
	}

	if verbose {
		fmt.Fprintf(status, "(%d/%d queries succeeded, run %s)\n", a.Completed, a.Total, a.RunID)
	}
}
