// ABOUTME: Tests for first-query extraction heuristics
// ABOUTME: Pins the imprecise behavior downstream fallbacks rely on
package extract

import "testing"

func TestFirstQuery(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "no terminator takes rest of text",
			input:  "blah SELECT a FROM t WHERE x=1 more text",
			want:   "SELECT a FROM t WHERE x=1 more text;",
			wantOK: true,
		},
		{
			name:   "no keyword",
			input:  "I cannot answer that question.",
			wantOK: false,
		},
		{
			name:   "truncates at first terminator",
			input:  "Query:\nSELECT a FROM t; SELECT b FROM u;",
			want:   "SELECT a FROM t;",
			wantOK: true,
		},
		{
			name:   "case insensitive and preserves case",
			input:  "here: select count(*) from t;",
			want:   "select count(*) from t;",
			wantOK: true,
		},
		{
			name:   "with clause spans lines",
			input:  "WITH x AS (\n  SELECT 1\n)\nSELECT * FROM x;\nDone.",
			want:   "WITH x AS (\n  SELECT 1\n)\nSELECT * FROM x;",
			wantOK: true,
		},
		{
			name:   "keyword inside a word still matches",
			input:  "Answer without a query",
			want:   "without a query;",
			wantOK: true,
		},
		{
			name:   "quoted terminator is not respected",
			input:  "SELECT ';' AS semi FROM t;",
			want:   "SELECT ';",
			wantOK: true,
		},
		{
			name:   "trailing newline before appended terminator",
			input:  "SELECT 1\n",
			want:   "SELECT 1;",
			wantOK: true,
		},
		{
			name:   "all trailing whitespace trimmed",
			input:  "SELECT 1 \t\r\n\n",
			want:   "SELECT 1;",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstQuery(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("FirstQuery() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("FirstQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
