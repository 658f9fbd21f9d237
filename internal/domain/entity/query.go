package entity

// Tier identifies the model capability class a query is routed to.
type Tier string

const (
	TierFast  Tier = "fast"
	TierCode  Tier = "code"
	TierHeavy Tier = "heavy"
)

// ClassificationResult is the outcome of classifying a single query.
// It is produced fresh per query and never mutated afterwards.
type ClassificationResult struct {
	Tier            Tier     `json:"tier"`
	ComplexityScore float64  `json:"complexity_score"`
	Reasoning       string   `json:"reasoning"`
	MatchedSignals  []string `json:"matched_signals"`
}
