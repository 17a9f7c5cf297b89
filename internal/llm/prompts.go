// ABOUTME: Prompt templates for every generation stage of the pipeline
// ABOUTME: Built once at setup; individual stages can be overridden by name
package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Stage names, also the keys accepted by Prompts.Override
const (
	StageQuestions        = "questions"
	StageQuery            = "query"
	StageSummarize        = "summarize"
	StageRearrange        = "rearrange"
	StageReport           = "report"
	StageEnhance          = "enhance"
	StageMethodology      = "methodology"
	StageExecutiveSummary = "executive_summary"
)

// Prompts holds the template text for each stage, keyed by stage name.
// Templates use text/template syntax, e.g. {{.Objective}}.
type Prompts map[string]string

// DefaultPrompts returns the built-in template set
func DefaultPrompts() Prompts {
	return Prompts{
		StageQuestions:        questionsPrompt,
		StageQuery:            queryPrompt,
		StageSummarize:        summarizePrompt,
		StageRearrange:        rearrangePrompt,
		StageReport:           reportPrompt,
		StageEnhance:          enhancePrompt,
		StageMethodology:      methodologyPrompt,
		StageExecutiveSummary: executiveSummaryPrompt,
	}
}

// Override returns a copy of p with the given templates replaced.
// Unknown stage names are rejected.
func (p Prompts) Override(overrides map[string]string) (Prompts, error) {
	out := make(Prompts, len(p))
	for k, v := range p {
		out[k] = v
	}

	var unknown []string
	for name, tmpl := range overrides {
		if _, ok := p[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		out[name] = tmpl
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown prompt stages: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

const questionsPrompt = `# Context
Your job is to find useful insights in large datasets.

# Task
The overall objective is: {{.Objective}}
Write {{.Count}} interesting questions that can be answered using only the table described below.
Return them as a numbered list, one question per line, each ending with a question mark.

# Table schema
Table name: {{.TableName}}
Columns and data types: {{.Schema}}

# Questions
`

const queryPrompt = `# Context
Your job is to write one SQLite query that answers the following question:
{{.Question}}

The query may only use the table ` + "`{{.TableName}}`" + ` and the columns listed below.

# Columns and data types
{{.Schema}}

If the question cannot be answered exactly with these columns, answer it as closely as you can.
Do not use columns that are not in the table.
Make sure the query runs and returns the correct output. End it with a semicolon.

# Query
`

const summarizePrompt = `# Context
Your job is to condense a numbered list of analytical findings.

# Task
Rewrite each finding below as one or two plain sentences that keep its key numbers.
Keep the original numbering exactly: finding 3 must still be numbered 3.

# Findings
{{.Facts}}

# Condensed findings
`

const rearrangePrompt = `# Context
Your job is to rearrange a list of facts into a narrative.
The rearranged list should use the same fact numbers, in an order that makes the narrative stronger.
You don't have to use every fact.

# Task
Rearrange the facts below so they tell the strongest story. Leave out facts that don't fit the narrative.
Start the response with the list of fact numbers in their new order, then write a short summary of the narrative.

##### EXAMPLE #####
Facts:
1. Joe missed the bus this morning
2. Joe woke up late
3. Turtles are green
4. Joe doesn't think he did well on his exam

New order and narrative:
[2, 1, 4] Joe got off to a bad start that day. Not only did he wake up late, he missed the bus. This likely caused him to perform poorly on his exam.
###################

# Facts
{{.Facts}}

# New order and narrative
`

const reportPrompt = `# Context
Your job is to present data through narrative and data storytelling. Below is a set of questions and the data that answers them.
Present it as a complete data analysis that ties everything into one cohesive narrative.
Keep the data points in the order given; they have already been arranged.
The response should make a few major points that together paint a larger picture.

# Overall task
{{.Objective}}

# Narrative to communicate
{{.Narrative}}

# Data
{{.Data}}

# Analysis
`

const enhancePrompt = `# Context
Your job is to make basic data reports more engaging. Rewrite the analysis below so it is more engaging and compelling.
Add context at the beginning if it helps, and feel free to open with an interesting anecdote. Weave the findings into a strong narrative.

# Raw analysis
{{.Report}}

# Enhanced analysis
`

const methodologyPrompt = `# Context
Your job is to explain the method behind a SQL query in at most two short sentences.

# Example
Question: Who sold the most widgets?
Query: SELECT employee_name FROM employee_sales ORDER BY widgets_sold DESC LIMIT 1
Methodology: We sort the sales table by widgets sold and return the employee with the most sales.

# Question
{{.Question}}

# Query
{{.Query}}

# Methodology
`

const executiveSummaryPrompt = `# Context
Your job is to condense and simplify reports for your company's CEO. Condense the report below into a short, 5 bullet point summary.

# Raw analysis
{{.Report}}

# Summary
`
