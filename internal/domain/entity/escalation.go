package entity

import "time"

// Priority is the triage class of an escalated query. It never changes the
// escalation outcome itself.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ConfidenceThresholds configures the escalation gate. All values live in
// [0,1]; Clamped enforces the range.
type ConfidenceThresholds struct {
	Escalation float64 `json:"escalation_threshold"`
	High       float64 `json:"high_confidence"`
	Medium     float64 `json:"medium_confidence"`
	Low        float64 `json:"low_confidence"`
}

// DefaultThresholds returns the stock threshold configuration.
func DefaultThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{
		Escalation: 0.5,
		High:       0.8,
		Medium:     0.6,
		Low:        0.3,
	}
}

// Clamped returns a copy with every threshold forced into [0,1].
func (t ConfidenceThresholds) Clamped() ConfidenceThresholds {
	return ConfidenceThresholds{
		Escalation: Clamp01(t.Escalation),
		High:       Clamp01(t.High),
		Medium:     Clamp01(t.Medium),
		Low:        Clamp01(t.Low),
	}
}

// ThresholdUpdate carries an optional new value per threshold. Nil fields
// leave the current value untouched.
type ThresholdUpdate struct {
	Escalation *float64 `json:"escalation_threshold,omitempty"`
	High       *float64 `json:"high_confidence,omitempty"`
	Medium     *float64 `json:"medium_confidence,omitempty"`
	Low        *float64 `json:"low_confidence,omitempty"`
}

// EscalationDecision is the derived verdict for one confidence evaluation.
type EscalationDecision struct {
	ShouldEscalate  bool     `json:"should_escalate"`
	Reason          string   `json:"reason"`
	ConfidenceScore float64  `json:"confidence_score"`
	ThresholdUsed   float64  `json:"threshold_used"`
	Priority        Priority `json:"priority"`
}

// EscalationStatistics aggregates process-wide escalation counters. The
// numbers are diagnostic and tolerate approximate accuracy under
// concurrency.
type EscalationStatistics struct {
	TotalEvaluations     int64                `json:"total_evaluations"`
	EscalationsTriggered int64                `json:"escalations_triggered"`
	EscalationRate       float64              `json:"escalation_rate"`
	SuccessRate          float64              `json:"escalation_success_rate"`
	LastEscalation       time.Time            `json:"last_escalation,omitzero"`
	Thresholds           ConfidenceThresholds `json:"thresholds"`
}

// Clamp01 forces v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
