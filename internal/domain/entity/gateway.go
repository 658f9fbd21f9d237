package entity

// Result sources for escalation outcomes that did not reach an external
// provider.
const (
	SourceLocal          = "local"
	SourceLocalFallback  = "local_fallback"
	SourceErrorFallback  = "error_fallback"
	SourceFallbackFailed = "fallback_failed"
)

// EscalateRequest asks the gateway to consider escalating a locally
// answered query.
type EscalateRequest struct {
	Query      string  `json:"query"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context,omitempty"`
	Response   string  `json:"response,omitempty"`
}

// EscalateResult is the single structured outcome of an escalation request.
// Exactly one of the terminal paths (no escalation, cache hit, connectivity
// fallback, external call) produced it.
type EscalateResult struct {
	Success        bool    `json:"success"`
	Escalated      bool    `json:"escalated"`
	Response       string  `json:"external_response,omitempty"`
	Source         string  `json:"source"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
	Cached         bool    `json:"cached"`
	Reason         string  `json:"escalation_reason,omitempty"`
	Error          string  `json:"error,omitempty"`
}
