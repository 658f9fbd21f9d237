package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
)

func newTestEvaluator() *ConfidenceEvaluator {
	return NewConfidenceEvaluator(entity.DefaultThresholds(), zap.NewNop())
}

func TestEvaluateHighConfidenceStaysLocal(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Wie liste ich Dateien auf?", 0.9, "")
	assert.False(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "above threshold")
	assert.Equal(t, entity.PriorityNone, d.Priority)
}

func TestEvaluateBelowThresholdEscalates(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Berechne die Fibonacci-Zahlen bis 100", 0.35, "")
	assert.True(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "below threshold")
	assert.Equal(t, entity.PriorityMedium, d.Priority)
}

func TestEvaluateVeryLowConfidence(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("irgendeine Frage", 0.1, "")
	assert.True(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "very low confidence")
}

func TestEvaluateThresholdAloneDecides(t *testing.T) {
	e := newTestEvaluator()

	// Weak responses never force an escalation on their own; the gate is
	// the threshold comparison.
	d := e.Evaluate("Wie konfiguriere ich nginx?", 0.7, "Not sure, maybe.")
	assert.False(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "above threshold")
}

func TestEvaluateUncertaintyMarkerInReason(t *testing.T) {
	e := newTestEvaluator()

	resp := "I'm not sure, but you could check the logs for hints about what went wrong here."
	d := e.Evaluate("Warum startet der Dienst nicht?", 0.4, resp)
	assert.True(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "below threshold")
	assert.Contains(t, d.Reason, "uncertainty")
}

func TestEvaluateShortResponseInReason(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Wie konfiguriere ich nginx?", 0.4, "Use nginx.")
	assert.True(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "too short")
}

func TestEvaluateComplexQueryInReason(t *testing.T) {
	e := newTestEvaluator()

	query := "Kannst du mir bitte ganz genau erklären wie ich auf meinem Server die alten Kernel Pakete finde und sie dann sicher entferne ohne das laufende System zu beschädigen"
	resp := "Zuerst listest du mit sudo apt list die installierten Pakete auf und entfernst dann die alten Versionen."
	d := e.Evaluate(query, 0.45, resp)
	assert.True(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "complex query")
}

func TestEvaluateTechnicalMismatchInReason(t *testing.T) {
	e := newTestEvaluator()

	query := "Wie richte ich den service ein und wo finde ich die log datei im network?"
	resp := "Es gibt viele verschiedene Wege, das einzurichten, je nachdem wie deine Umgebung aussieht."
	d := e.Evaluate(query, 0.4, resp)
	assert.True(t, d.ShouldEscalate)
	assert.Contains(t, d.Reason, "technical")
}

func TestEvaluateClampsConfidence(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("kurze Frage", 1.7, "")
	assert.False(t, d.ShouldEscalate)
	assert.Equal(t, 1.0, d.ConfidenceScore)

	d = e.Evaluate("kurze Frage", -0.5, "")
	assert.True(t, d.ShouldEscalate)
	assert.Equal(t, 0.0, d.ConfidenceScore)
}

func TestEvaluatePriorityVocabulary(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Production outage, der Server ist down!", 0.1, "")
	assert.Equal(t, entity.PriorityHigh, d.Priority)

	d = e.Evaluate("Das Backup ist fehlgeschlagen", 0.1, "")
	assert.Equal(t, entity.PriorityMedium, d.Priority)

	d = e.Evaluate("Wie kann ich das lernen, gibt es ein Tutorial?", 0.1, "")
	assert.Equal(t, entity.PriorityLow, d.Priority)
}

func TestAdjustThresholdsClampsValues(t *testing.T) {
	e := newTestEvaluator()

	high := 1.5
	th := e.AdjustThresholds(entity.ThresholdUpdate{Escalation: &high})
	assert.Equal(t, 1.0, th.Escalation)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.8, th.High)
	assert.Equal(t, 0.3, th.Low)
}

func TestAdjustThresholdsChangesGate(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Frage", 0.6, "")
	require.False(t, d.ShouldEscalate)

	gate := 0.7
	e.AdjustThresholds(entity.ThresholdUpdate{Escalation: &gate})

	d = e.Evaluate("Frage", 0.6, "")
	assert.True(t, d.ShouldEscalate)
}

func TestRecordOutcomeRunningAverage(t *testing.T) {
	e := newTestEvaluator()

	d := e.Evaluate("Frage eins", 0.1, "")
	require.True(t, d.ShouldEscalate)
	e.RecordOutcome(true)
	assert.InDelta(t, 1.0, e.Statistics().SuccessRate, 1e-9)

	d = e.Evaluate("Frage zwei", 0.1, "")
	require.True(t, d.ShouldEscalate)
	e.RecordOutcome(false)
	assert.InDelta(t, 0.5, e.Statistics().SuccessRate, 1e-9)
}

func TestRecordOutcomeWithoutEscalationIsNoop(t *testing.T) {
	e := newTestEvaluator()

	e.RecordOutcome(true)
	assert.Zero(t, e.Statistics().SuccessRate)
}

func TestStatisticsCounters(t *testing.T) {
	e := newTestEvaluator()

	e.Evaluate("hohe Konfidenz", 0.9, "")
	e.Evaluate("niedrige Konfidenz", 0.1, "")

	stats := e.Statistics()
	assert.Equal(t, int64(2), stats.TotalEvaluations)
	assert.Equal(t, int64(1), stats.EscalationsTriggered)
	assert.InDelta(t, 0.5, stats.EscalationRate, 1e-9)
	assert.False(t, stats.LastEscalation.IsZero())
	assert.Equal(t, entity.DefaultThresholds(), stats.Thresholds)
}
