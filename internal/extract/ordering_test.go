// ABOUTME: Tests for ordering-proposal parsing
// ABOUTME: Well-formed lists, narratives, and MalformedOrdering cases
package extract

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/harper/datastory/internal/models"
)

func TestOrderingProposal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.OrderingProposal
	}{
		{
			name:  "documented example",
			input: "[2, 1, 4] Joe had a rough morning.",
			want:  models.OrderingProposal{Positions: []int{2, 1, 4}, Narrative: "Joe had a rough morning."},
		},
		{
			name:  "no spaces and newline separator",
			input: "[3,1]\nSales dipped, then recovered.",
			want:  models.OrderingProposal{Positions: []int{3, 1}, Narrative: "Sales dipped, then recovered."},
		},
		{
			name:  "only one separator consumed",
			input: "[1]  two spaces",
			want:  models.OrderingProposal{Positions: []int{1}, Narrative: " two spaces"},
		},
		{
			name:  "empty list",
			input: "[] Nothing fits.",
			want:  models.OrderingProposal{Positions: []int{}, Narrative: "Nothing fits."},
		},
		{
			name:  "leading whitespace and trailing comma",
			input: "  [1, 2,] Story",
			want:  models.OrderingProposal{Positions: []int{1, 2}, Narrative: "Story"},
		},
		{
			name:  "out of range and duplicate values pass through",
			input: "[0, 2, 2, 9] Unchecked",
			want:  models.OrderingProposal{Positions: []int{0, 2, 2, 9}, Narrative: "Unchecked"},
		},
		{
			name:  "no narrative",
			input: "[1, 2]",
			want:  models.OrderingProposal{Positions: []int{1, 2}, Narrative: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderingProposal(tt.input)
			if err != nil {
				t.Fatalf("OrderingProposal() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("OrderingProposal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrderingProposal_Malformed(t *testing.T) {
	inputs := []string{
		"Joe had a rough morning.",
		"Order: [2, 1] story",
		"[2, one, 4] story",
		"[[1, 2] story",
		"[1,, 2] story",
		"2, 1] story",
		"",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := OrderingProposal(in)
			if !errors.Is(err, ErrMalformedOrdering) {
				t.Errorf("OrderingProposal(%q) error = %v, want ErrMalformedOrdering", in, err)
			}
		})
	}
}
