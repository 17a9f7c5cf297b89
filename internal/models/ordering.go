// ABOUTME: OrderingProposal is the rearrangement stage's parsed output
// ABOUTME: A 1-based position sequence paired with a narrative blurb
package models

// OrderingProposal names fact positions (1-based, in the order they should be
// told) and the narrative that ties them together. Positions are unvalidated.
type OrderingProposal struct {
	Positions []int  `json:"positions"`
	Narrative string `json:"narrative"`
}
