// ABOUTME: FactOrderer turns a filtered fact list into narrative order
// ABOUTME: Summarize, ask for an ordering, normalize it to a rank, then gather
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harper/datastory/internal/extract"
	"github.com/harper/datastory/internal/models"
)

var (
	// ErrOrderingOutOfRange marks a proposed position outside 1..len(facts)
	ErrOrderingOutOfRange = errors.New("ordering position out of range")
	// ErrDuplicatePosition marks a position the proposal named more than once
	ErrDuplicatePosition = errors.New("duplicate ordering position")
)

// Narrator is the pair of generation stages the orderer depends on
type Narrator interface {
	Summarize(ctx context.Context, facts string) (string, error)
	Rearrange(ctx context.Context, summary string) (string, error)
}

// Ordering is the orderer's result. Facts is in narrative order and may be
// shorter than the input; Rank holds the 0-based input index of each entry.
// Diagnostics lists every non-fatal problem found in the proposal.
type Ordering struct {
	Facts       models.FactList `json:"facts"`
	Narrative   string          `json:"narrative"`
	Rank        []int           `json:"rank"`
	Diagnostics []error         `json:"-"`
}

// FactOrderer derives a narrative ordering over facts
type FactOrderer struct {
	narrator Narrator
	log      *slog.Logger
}

// NewFactOrderer creates a FactOrderer backed by the given narrator
func NewFactOrderer(narrator Narrator, log *slog.Logger) *FactOrderer {
	if log == nil {
		log = slog.Default()
	}
	return &FactOrderer{narrator: narrator, log: log}
}

// OrderFacts summarizes facts, asks for an ordering proposal, and gathers
// facts by the proposed positions. Generation errors are returned; a
// malformed proposal falls back to the input order with an empty narrative.
func (o *FactOrderer) OrderFacts(ctx context.Context, facts models.FactList) (Ordering, error) {
	if len(facts) == 0 {
		return Ordering{Facts: models.FactList{}, Rank: []int{}}, nil
	}

	summary, err := o.narrator.Summarize(ctx, facts.Numbered())
	if err != nil {
		return Ordering{}, fmt.Errorf("failed to summarize facts: %w", err)
	}

	raw, err := o.narrator.Rearrange(ctx, summary)
	if err != nil {
		return Ordering{}, fmt.Errorf("failed to rearrange facts: %w", err)
	}

	proposal, err := extract.OrderingProposal(raw)
	if err != nil {
		o.log.Warn("ordering proposal unusable, keeping generation order", "error", err)
		rank := identityRank(len(facts))
		return Ordering{
			Facts:       Gather(facts, rank),
			Rank:        rank,
			Diagnostics: []error{err},
		}, nil
	}

	rank, diags := Rank(proposal.Positions, len(facts))
	for _, d := range diags {
		o.log.Warn("ordering proposal entry dropped", "error", d)
	}
	o.log.Debug("facts ordered", "input", len(facts), "kept", len(rank))

	return Ordering{
		Facts:       Gather(facts, rank),
		Narrative:   proposal.Narrative,
		Rank:        rank,
		Diagnostics: diags,
	}, nil
}

// Rank converts 1-based proposal positions over n facts into 0-based
// indices, in proposal order. Out-of-range positions and repeats are
// dropped and reported; the first occurrence of a position wins.
func Rank(positions []int, n int) ([]int, []error) {
	rank := make([]int, 0, len(positions))
	seen := make(map[int]bool, len(positions))
	var diags []error

	for i, k := range positions {
		if k < 1 || k > n {
			diags = append(diags, fmt.Errorf("%w: entry %d names %d, valid range is 1..%d", ErrOrderingOutOfRange, i+1, k, n))
			continue
		}
		idx := k - 1
		if seen[idx] {
			diags = append(diags, fmt.Errorf("%w: entry %d repeats %d", ErrDuplicatePosition, i+1, k))
			continue
		}
		seen[idx] = true
		rank = append(rank, idx)
	}
	return rank, diags
}

// Gather returns a new list with out[i] = facts[rank[i]]. Indices must be
// valid for facts.
func Gather(facts models.FactList, rank []int) models.FactList {
	out := make(models.FactList, len(rank))
	for i, idx := range rank {
		out[i] = facts[idx]
	}
	return out
}

func identityRank(n int) []int {
	rank := make([]int, n)
	for i := range rank {
		rank[i] = i
	}
	return rank
}
