// ABOUTME: Best-effort extraction of a single SQL statement from generated text
// ABOUTME: A heuristic, not a parser: no quote or parenthesis balancing
package extract

import (
	"regexp"
	"strings"
)

// queryOpener matches anywhere, including inside longer words.
var queryOpener = regexp.MustCompile(`(?i)SELECT|WITH`)

// FirstQuery returns the text from the first SELECT/WITH keyword up to and
// including the first ';' after it. With no terminator the rest of the text
// is taken, trailing whitespace is trimmed, and ';' appended. ok is false when
// no keyword occurs.
func FirstQuery(text string) (query string, ok bool) {
	loc := queryOpener.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[0]:]
	if end := strings.IndexByte(rest, ';'); end >= 0 {
		return rest[:end+1], true
	}
	return strings.TrimRight(rest, " \t\r\n") + ";", true
}
