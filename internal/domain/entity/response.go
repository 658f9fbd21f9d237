package entity

// ExternalResponse is the answer produced by an external AI provider, or
// reconstructed from a cache entry. ProcessingTime is in seconds.
type ExternalResponse struct {
	Success        bool           `json:"success"`
	Response       string         `json:"response"`
	Source         string         `json:"source"`
	Confidence     float64        `json:"confidence"`
	ProcessingTime float64        `json:"processing_time"`
	Cached         bool           `json:"cached"`
	Error          string         `json:"error,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
