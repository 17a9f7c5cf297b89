// ABOUTME: Fact pairs a generated question with the answer its query produced
// ABOUTME: FactList is the ordered collection handed from stage to stage
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Fact is one question/answer pair produced by a question-and-query cycle
type Fact struct {
	Question string `json:"question"`
	Answer   Answer `json:"answer"`
}

// NewFact creates a Fact, rejecting empty questions
func NewFact(question string, answer Answer) (Fact, error) {
	if strings.TrimSpace(question) == "" {
		return Fact{}, errors.New("question cannot be empty")
	}
	return Fact{Question: question, Answer: answer}, nil
}

// FactList is an ordered sequence of facts.
// Positions are 1-based wherever they are shown to the generation service
// and 0-based everywhere else.
type FactList []Fact

// Succeeded returns a new list holding only facts whose query succeeded,
// preserving order
func (fl FactList) Succeeded() FactList {
	out := make(FactList, 0, len(fl))
	for _, f := range fl {
		if f.Answer.OK() {
			out = append(out, f)
		}
	}
	return out
}

// CountSucceeded returns how many facts carry a tabular answer
func (fl FactList) CountSucceeded() int {
	n := 0
	for _, f := range fl {
		if f.Answer.OK() {
			n++
		}
	}
	return n
}

// Questions returns the question text of every fact in order
func (fl FactList) Questions() []string {
	out := make([]string, len(fl))
	for i, f := range fl {
		out[i] = f.Question
	}
	return out
}

// Numbered renders the list as 1-based numbered blocks, the form the
// summarization and rearrangement prompts refer back to
func (fl FactList) Numbered() string {
	var sb strings.Builder
	for i, f := range fl {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. Question: %s\nAnswer:\n%s\n", i+1, f.Question, f.Answer.String())
	}
	return sb.String()
}
