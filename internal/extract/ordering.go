// ABOUTME: Parses the rearrangement stage's "[2, 1, 4] narrative..." output
// ABOUTME: Range and uniqueness checks belong to the ordering engine, not here
package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harper/datastory/internal/models"
)

// ErrMalformedOrdering is returned when the text does not open with a
// bracketed integer list
var ErrMalformedOrdering = errors.New("malformed ordering proposal")

// OrderingProposal splits text at its first ']' into a position list and a
// narrative. One whitespace character after the bracket is consumed; the
// rest of the narrative is returned verbatim.
func OrderingProposal(text string) (models.OrderingProposal, error) {
	end := strings.IndexByte(text, ']')
	if end < 0 {
		return models.OrderingProposal{}, fmt.Errorf("%w: no closing bracket", ErrMalformedOrdering)
	}

	positions, err := parseIntList(text[:end+1])
	if err != nil {
		return models.OrderingProposal{}, err
	}

	narrative := text[end+1:]
	if r, size := utf8.DecodeRuneInString(narrative); size > 0 && unicode.IsSpace(r) {
		narrative = narrative[size:]
	}

	return models.OrderingProposal{Positions: positions, Narrative: narrative}, nil
}

// parseIntList accepts "[1, 2, 3]", "[]" and a trailing comma, like a
// list literal would.
func parseIntList(s string) ([]int, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: %q is not a bracketed list", ErrMalformedOrdering, s)
	}

	body := strings.TrimSpace(s[1 : len(s)-1])
	if strings.ContainsRune(body, '[') {
		return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformedOrdering, s)
	}
	positions := []int{}
	if body == "" {
		return positions, nil
	}

	body = strings.TrimSuffix(body, ",")
	for _, tok := range strings.Split(body, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrMalformedOrdering, strings.TrimSpace(tok))
		}
		positions = append(positions, n)
	}
	return positions, nil
}
