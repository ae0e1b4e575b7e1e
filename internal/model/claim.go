package model

// Claims holds everything the claim extractor found in one response text.
// A nil RecordClaim or GoalDiffClaim means the pattern did not match.
type Claims struct {
	Record     *RecordClaim   `json:"record,omitempty"`
	GoalDiff   *GoalDiffClaim `json:"goal_diff,omitempty"`
	Dominant   []string       `json:"dominant,omitempty"`   // Dominance phrases found, lexicon order
	Disastrous []string       `json:"disastrous,omitempty"` // Disaster phrases found, lexicon order
}

// RecordClaim is the first "N-M" pair found in a response, read as wins-losses
type RecordClaim struct {
	Text   string `json:"text"`   // The matched substring (e.g., "12-7")
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Parsed bool   `json:"parsed"` // False when a number does not fit in an int
}

// GoalDiffClaim is the first explicit "goal differential (of) N" found in a response
type GoalDiffClaim struct {
	Text   string `json:"text"`
	Value  int    `json:"value"`
	Parsed bool   `json:"parsed"`
}
