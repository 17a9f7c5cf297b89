// ABOUTME: Tests for FactOrderer rank normalization and gathering
// ABOUTME: Uses a scripted narrator so no generation service is needed

package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harper/datastory/internal/extract"
	"github.com/harper/datastory/internal/models"
)

type scriptedNarrator struct {
	summary      string
	proposal     string
	summarizeErr error
	rearrangeErr error

	summarizeCalls int
	rearrangeCalls int
	lastFacts      string
	lastSummary    string
}

func (n *scriptedNarrator) Summarize(ctx context.Context, facts string) (string, error) {
	n.summarizeCalls++
	n.lastFacts = facts
	if n.summarizeErr != nil {
		return "", n.summarizeErr
	}
	return n.summary, nil
}

func (n *scriptedNarrator) Rearrange(ctx context.Context, summary string) (string, error) {
	n.rearrangeCalls++
	n.lastSummary = summary
	if n.rearrangeErr != nil {
		return "", n.rearrangeErr
	}
	return n.proposal, nil
}

func factList(questions ...string) models.FactList {
	out := make(models.FactList, len(questions))
	for i, q := range questions {
		out[i] = models.Fact{
			Question: q,
			Answer:   models.Ok(&models.Table{Columns: []string{"n"}, Rows: [][]any{{int64(i)}}}),
		}
	}
	return out
}

func TestOrderFacts(t *testing.T) {
	tests := []struct {
		name          string
		facts         models.FactList
		proposal      string
		wantQuestions []string
		wantNarrative string
		wantRank      []int
		wantDiag      []error
	}{
		{
			name:          "identity",
			facts:         factList("A", "B", "C"),
			proposal:      "[1, 2, 3] Start with A.",
			wantQuestions: []string{"A", "B", "C"},
			wantNarrative: "Start with A.",
			wantRank:      []int{0, 1, 2},
		},
		{
			name:          "partial reorder",
			facts:         factList("A", "B", "C"),
			proposal:      "[3, 1] C then A.",
			wantQuestions: []string{"C", "A"},
			wantNarrative: "C then A.",
			wantRank:      []int{2, 0},
		},
		{
			name:          "duplicate keeps first",
			facts:         factList("A", "B"),
			proposal:      "[2, 2, 1] story",
			wantQuestions: []string{"B", "A"},
			wantNarrative: "story",
			wantRank:      []int{1, 0},
			wantDiag:      []error{ErrDuplicatePosition},
		},
		{
			name:          "all out of range",
			facts:         factList("A", "B"),
			proposal:      "[5] nothing fits",
			wantQuestions: []string{},
			wantNarrative: "nothing fits",
			wantRank:      []int{},
			wantDiag:      []error{ErrOrderingOutOfRange},
		},
		{
			name:          "zero and negative dropped",
			facts:         factList("A", "B"),
			proposal:      "[0, -1, 2] only B",
			wantQuestions: []string{"B"},
			wantNarrative: "only B",
			wantRank:      []int{1},
			wantDiag:      []error{ErrOrderingOutOfRange, ErrOrderingOutOfRange},
		},
		{
			name:          "malformed falls back to identity",
			facts:         factList("A", "B"),
			proposal:      "I think B is more interesting than A.",
			wantQuestions: []string{"A", "B"},
			wantNarrative: "",
			wantRank:      []int{0, 1},
			wantDiag:      []error{extract.ErrMalformedOrdering},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrator := &scriptedNarrator{summary: "summary", proposal: tt.proposal}
			orderer := NewFactOrderer(narrator, nil)

			got, err := orderer.OrderFacts(context.Background(), tt.facts)
			if err != nil {
				t.Fatalf("OrderFacts failed: %v", err)
			}

			if diff := cmp.Diff(tt.wantQuestions, got.Facts.Questions()); diff != "" {
				t.Errorf("facts mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRank, got.Rank); diff != "" {
				t.Errorf("rank mismatch (-want +got):\n%s", diff)
			}
			if got.Narrative != tt.wantNarrative {
				t.Errorf("expected narrative %q, got %q", tt.wantNarrative, got.Narrative)
			}
			if len(got.Diagnostics) != len(tt.wantDiag) {
				t.Fatalf("expected %d diagnostics, got %d: %v", len(tt.wantDiag), len(got.Diagnostics), got.Diagnostics)
			}
			for i, want := range tt.wantDiag {
				if !errors.Is(got.Diagnostics[i], want) {
					t.Errorf("diagnostic %d: expected %v, got %v", i, want, got.Diagnostics[i])
				}
			}
		})
	}
}

func TestOrderFactsPassesNumberedFactsAndSummary(t *testing.T) {
	narrator := &scriptedNarrator{summary: "the summary", proposal: "[1] ok"}
	orderer := NewFactOrderer(narrator, nil)

	facts := factList("How many?")
	if _, err := orderer.OrderFacts(context.Background(), facts); err != nil {
		t.Fatalf("OrderFacts failed: %v", err)
	}

	if !strings.HasPrefix(narrator.lastFacts, "1. Question: How many?") {
		t.Errorf("expected numbered facts, got %q", narrator.lastFacts)
	}
	if narrator.lastSummary != "the summary" {
		t.Errorf("expected rearrange to receive the summary, got %q", narrator.lastSummary)
	}
}

func TestOrderFactsEmptyInputSkipsGeneration(t *testing.T) {
	narrator := &scriptedNarrator{}
	orderer := NewFactOrderer(narrator, nil)

	got, err := orderer.OrderFacts(context.Background(), models.FactList{})
	if err != nil {
		t.Fatalf("OrderFacts failed: %v", err)
	}
	if len(got.Facts) != 0 || got.Narrative != "" {
		t.Errorf("expected empty ordering, got %+v", got)
	}
	if narrator.summarizeCalls != 0 || narrator.rearrangeCalls != 0 {
		t.Errorf("expected no generation calls, got summarize=%d rearrange=%d",
			narrator.summarizeCalls, narrator.rearrangeCalls)
	}
}

func TestOrderFactsGenerationErrorsAreFatal(t *testing.T) {
	boom := errors.New("service unavailable")

	tests := []struct {
		name     string
		narrator *scriptedNarrator
	}{
		{"summarize", &scriptedNarrator{summarizeErr: boom}},
		{"rearrange", &scriptedNarrator{summary: "s", rearrangeErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderer := NewFactOrderer(tt.narrator, nil)
			_, err := orderer.OrderFacts(context.Background(), factList("A"))
			if !errors.Is(err, boom) {
				t.Fatalf("expected wrapped generation error, got %v", err)
			}
		})
	}
}

func TestOrderFactsDoesNotMutateInput(t *testing.T) {
	narrator := &scriptedNarrator{summary: "s", proposal: "[2, 1] swapped"}
	orderer := NewFactOrderer(narrator, nil)

	facts := factList("A", "B")
	if _, err := orderer.OrderFacts(context.Background(), facts); err != nil {
		t.Fatalf("OrderFacts failed: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, facts.Questions()); diff != "" {
		t.Errorf("input was mutated (-want +got):\n%s", diff)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		n         int
		want      []int
		wantDiags int
	}{
		{"empty proposal", []int{}, 3, []int{}, 0},
		{"reverse", []int{3, 2, 1}, 3, []int{2, 1, 0}, 0},
		{"upper bound inclusive", []int{4}, 4, []int{3}, 0},
		{"past upper bound", []int{4}, 3, []int{}, 1},
		{"mixed", []int{2, 9, 2, 1}, 2, []int{1, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := Rank(tt.positions, tt.n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rank mismatch (-want +got):\n%s", diff)
			}
			if len(diags) != tt.wantDiags {
				t.Errorf("expected %d diagnostics, got %d: %v", tt.wantDiags, len(diags), diags)
			}
		})
	}
}

func TestGather(t *testing.T) {
	facts := factList("A", "B", "C")
	got := Gather(facts, []int{2, 0})
	if diff := cmp.Diff([]string{"C", "A"}, got.Questions()); diff != "" {
		t.Errorf("gather mismatch (-want +got):\n%s", diff)
	}
	if len(Gather(facts, nil)) != 0 {
		t.Error("expected empty gather for empty rank")
	}
}
