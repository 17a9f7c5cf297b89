// ABOUTME: Pulls enumerated questions out of free-form generated text
// ABOUTME: Line-oriented and forgiving: unmatched lines are skipped silently
package extract

import (
	"regexp"
	"strings"
)

var questionLine = regexp.MustCompile(`^\d+\.\s+(.+?\?)`)

// Questions returns every "N. ...?" line in text, in order, without the
// leading number. Text after the first question mark on a line is ignored.
func Questions(text string) []string {
	questions := []string{}
	for _, line := range strings.Split(text, "\n") {
		m := questionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		questions = append(questions, m[1])
	}
	return questions
}
