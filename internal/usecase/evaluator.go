package usecase

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
)

var uncertaintyPhrases = []string{
	"ich bin mir nicht sicher", "ich weiss nicht", "ich weiß nicht",
	"i'm not sure", "i am not sure", "i don't know", "i do not know",
	"kann ich nicht beantworten", "cannot answer", "unclear",
	"möglicherweise", "moglicherweise", "vielleicht", "eventuell",
	"might be", "could be", "perhaps", "maybe",
}

var genericPhrases = []string{
	"es kommt darauf an", "it depends",
	"das ist eine gute frage", "that's a good question",
	"konsultieren sie die dokumentation", "consult the documentation",
	"wenden sie sich an", "contact your administrator",
}

var technicalQueryTerms = []string{
	"command", "befehl", "script", "skript", "config", "konfiguration",
	"log", "service", "process", "prozess", "file", "datei",
	"directory", "verzeichnis", "permission", "berechtigung",
	"network", "netzwerk", "port", "kernel", "package", "paket",
}

var technicalResponseTerms = []string{
	"sudo", "systemctl", "journalctl", "grep", "awk", "sed",
	"chmod", "chown", "mount", "apt", "yum", "dnf",
	"/etc/", "/var/", "/usr/", "$", "#",
}

var highPriorityTerms = []string{
	"critical", "kritisch", "urgent", "dringend", "emergency", "notfall",
	"production", "produktion", "outage", "ausfall", "down",
	"security", "sicherheit", "breach", "exploit", "vulnerability",
	"data loss", "datenverlust", "corruption",
}

var mediumPriorityTerms = []string{
	"performance", "slow", "langsam", "backup",
	"troubleshoot", "debug", "error", "fehler", "failed", "fehlgeschlagen",
	"migration", "upgrade", "restore",
}

var lowPriorityTerms = []string{
	"how to", "wie kann ich", "tutorial", "guide", "anleitung",
	"example", "beispiel", "learn", "lernen", "verstehen", "understand",
}

const shortResponseChars = 50

// ConfidenceEvaluator decides whether a locally produced answer should be
// escalated to an external provider. Thresholds are adjustable at runtime;
// counters are process-wide.
type ConfidenceEvaluator struct {
	totalEvaluations     atomic.Int64
	escalationsTriggered atomic.Int64

	mu             sync.RWMutex
	thresholds     entity.ConfidenceThresholds
	successRate    float64
	lastEscalation time.Time

	logger *zap.Logger
}

func NewConfidenceEvaluator(thresholds entity.ConfidenceThresholds, logger *zap.Logger) *ConfidenceEvaluator {
	return &ConfidenceEvaluator{
		thresholds: thresholds.Clamped(),
		logger:     logger,
	}
}

// Evaluate gates one (query, confidence, response) triple. Out-of-range
// confidence values are clamped into [0,1] before comparison.
func (e *ConfidenceEvaluator) Evaluate(query string, confidence float64, response string) *entity.EscalationDecision {
	conf := entity.Clamp01(confidence)
	e.totalEvaluations.Add(1)

	e.mu.RLock()
	th := e.thresholds
	e.mu.RUnlock()

	decision := &entity.EscalationDecision{
		ConfidenceScore: conf,
		ThresholdUsed:   th.Escalation,
		Priority:        entity.PriorityNone,
	}

	// The threshold comparison alone decides escalation; the trigger scan
	// below only enriches the reason.
	if conf >= th.Escalation {
		decision.Reason = fmt.Sprintf("Confidence score %.3f above threshold %.3f", conf, th.Escalation)
		return decision
	}

	reasons := []string{fmt.Sprintf("Confidence score %.3f below threshold %.3f", conf, th.Escalation)}
	reasons = append(reasons, escalationTriggers(query, conf, response, th)...)

	decision.ShouldEscalate = true
	decision.Reason = strings.Join(reasons, "; ")
	decision.Priority = queryPriority(query)

	e.escalationsTriggered.Add(1)
	e.mu.Lock()
	e.lastEscalation = time.Now()
	e.mu.Unlock()

	e.logger.Info("escalation triggered",
		zap.Float64("confidence", conf),
		zap.Float64("threshold", th.Escalation),
		zap.String("reason", decision.Reason),
		zap.String("priority", string(decision.Priority)))
	return decision
}

// escalationTriggers collects the secondary signals behind a low-confidence
// escalation, for the decision's reason text.
func escalationTriggers(query string, conf float64, response string, th entity.ConfidenceThresholds) []string {
	var triggers []string
	if conf < th.Low {
		triggers = append(triggers, fmt.Sprintf("very low confidence score %.3f", conf))
	}

	respLower := strings.ToLower(response)
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(respLower, phrase) {
			triggers = append(triggers, fmt.Sprintf("response contains uncertainty marker %q", phrase))
			break
		}
	}
	if response != "" && len(response) < shortResponseChars {
		triggers = append(triggers, "response too short (likely incomplete)")
	}
	for _, phrase := range genericPhrases {
		if strings.Contains(respLower, phrase) {
			triggers = append(triggers, fmt.Sprintf("response is generic (%q)", phrase))
			break
		}
	}
	if len(strings.Fields(query)) > 20 && conf < th.Medium {
		triggers = append(triggers, fmt.Sprintf("complex query with low confidence %.3f", conf))
	}
	if response != "" && isTechnicalQuery(query) && !hasTechnicalContent(response) {
		triggers = append(triggers, "technical query answered without technical content")
	}
	return triggers
}

func isTechnicalQuery(query string) bool {
	q := strings.ToLower(query)
	hits := 0
	for _, term := range technicalQueryTerms {
		if strings.Contains(q, term) {
			hits++
		}
	}
	return hits >= 2
}

func hasTechnicalContent(response string) bool {
	r := strings.ToLower(response)
	for _, term := range technicalResponseTerms {
		if strings.Contains(r, term) {
			return true
		}
	}
	return false
}

// queryPriority triages an escalated query by vocabulary. Severity terms
// win over everything; otherwise technical depth decides.
func queryPriority(query string) entity.Priority {
	q := strings.ToLower(query)
	for _, term := range highPriorityTerms {
		if strings.Contains(q, term) {
			return entity.PriorityHigh
		}
	}
	for _, term := range mediumPriorityTerms {
		if strings.Contains(q, term) {
			return entity.PriorityMedium
		}
	}
	for _, term := range lowPriorityTerms {
		if strings.Contains(q, term) {
			return entity.PriorityLow
		}
	}

	tech := len(containsAny(normalizeQuery(query), linuxKeywords))
	switch {
	case tech >= 3:
		return entity.PriorityMedium
	case tech >= 1:
		return entity.PriorityLow
	}
	return entity.PriorityMedium
}

// AdjustThresholds applies the non-nil fields of the update, clamped into
// [0,1], and returns the resulting configuration.
func (e *ConfidenceEvaluator) AdjustThresholds(update entity.ThresholdUpdate) entity.ConfidenceThresholds {
	e.mu.Lock()
	defer e.mu.Unlock()

	if update.Escalation != nil {
		e.thresholds.Escalation = entity.Clamp01(*update.Escalation)
	}
	if update.High != nil {
		e.thresholds.High = entity.Clamp01(*update.High)
	}
	if update.Medium != nil {
		e.thresholds.Medium = entity.Clamp01(*update.Medium)
	}
	if update.Low != nil {
		e.thresholds.Low = entity.Clamp01(*update.Low)
	}

	e.logger.Info("thresholds adjusted",
		zap.Float64("escalation", e.thresholds.Escalation),
		zap.Float64("high", e.thresholds.High),
		zap.Float64("medium", e.thresholds.Medium),
		zap.Float64("low", e.thresholds.Low))
	return e.thresholds
}

// Thresholds returns the current threshold configuration.
func (e *ConfidenceEvaluator) Thresholds() entity.ConfidenceThresholds {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thresholds
}

// RecordOutcome folds the result of a completed escalation into the
// running success rate. The rate is the average over all recorded
// escalation outcomes.
func (e *ConfidenceEvaluator) RecordOutcome(success bool) {
	n := e.escalationsTriggered.Load()
	if n == 0 {
		return
	}
	v := 0.0
	if success {
		v = 1.0
	}
	e.mu.Lock()
	e.successRate = (e.successRate*float64(n-1) + v) / float64(n)
	e.mu.Unlock()
}

// Statistics snapshots the evaluator counters.
func (e *ConfidenceEvaluator) Statistics() *entity.EscalationStatistics {
	total := e.totalEvaluations.Load()
	triggered := e.escalationsTriggered.Load()

	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := &entity.EscalationStatistics{
		TotalEvaluations:     total,
		EscalationsTriggered: triggered,
		SuccessRate:          e.successRate,
		LastEscalation:       e.lastEscalation,
		Thresholds:           e.thresholds,
	}
	if total > 0 {
		stats.EscalationRate = float64(triggered) / float64(total)
	}
	return stats
}
