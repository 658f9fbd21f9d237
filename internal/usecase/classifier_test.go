package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
)

func newTestClassifier() *Classifier {
	return NewClassifier(zap.NewNop())
}

func TestClassifyAlgebraicNotationAlwaysHeavy(t *testing.T) {
	c := newTestClassifier()

	queries := []string{
		"x + y = 5, x - y = 1",
		"Löse 3x = 12",
		"Finde alle ganzen Zahlen x mit x^2 < 50",
		"Löse das Gleichungssystem",
	}
	for _, q := range queries {
		result := c.Classify(q)
		assert.Equal(t, entity.TierHeavy, result.Tier, "query: %s", q)
		assert.NotEmpty(t, result.MatchedSignals, "query: %s", q)
	}
}

func TestClassifyMathKeywordsWithComplexity(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("Berechne die Fibonacci-Zahlen bis 100")
	assert.Equal(t, entity.TierHeavy, result.Tier)
	assert.GreaterOrEqual(t, result.ComplexityScore, 0.4)
}

func TestClassifyMathVocabularyAloneStaysFast(t *testing.T) {
	c := newTestClassifier()

	// A single casual math word without task complexity must not route to
	// the heavy tier.
	result := c.Classify("explain what an equation is")
	assert.Equal(t, entity.TierFast, result.Tier)
}

func TestClassifyCodeKeywords(t *testing.T) {
	c := newTestClassifier()

	queries := []string{
		"Schreibe eine Python-Funktion, die eine Datei kopiert",
		"Implementiere ein Backup-Skript mit rsync",
		"Wie debugge ich einen systemctl Service?",
	}
	for _, q := range queries {
		result := c.Classify(q)
		assert.Equal(t, entity.TierCode, result.Tier, "query: %s", q)
	}
}

func TestClassifyBasicCommandStaysFast(t *testing.T) {
	c := newTestClassifier()

	queries := []string{
		"Welcher Befehl zeigt die Festplattenbelegung an?",
		"ls",
		"df",
	}
	for _, q := range queries {
		result := c.Classify(q)
		assert.Equal(t, entity.TierFast, result.Tier, "query: %s", q)
	}
}

func TestClassifySmallTalkFast(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("Hallo, wie geht es dir?")
	assert.Equal(t, entity.TierFast, result.Tier)
}

func TestClassifyEmptyQuery(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("")
	assert.Equal(t, entity.TierFast, result.Tier)
	assert.Contains(t, result.Reasoning, "no signals")
	assert.Zero(t, result.ComplexityScore)
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier()

	q := "Berechne die Fibonacci-Zahlen bis 100"
	first := c.Classify(q)
	second := c.Classify(q)
	require.Equal(t, first, second)
}

func TestClassifyReasoningNamesTier(t *testing.T) {
	c := newTestClassifier()

	result := c.Classify("Schreibe eine Python-Funktion, die eine Datei kopiert")
	assert.Contains(t, result.Reasoning, "code tier")
	assert.Contains(t, result.MatchedSignals, "python")
}

func TestNormalizeQueryFoldsDiacritics(t *testing.T) {
	assert.Equal(t, "lose die gleichung", normalizeQuery("Löse die Gleichung"))
	assert.Equal(t, "grosse", normalizeQuery("Größe"))
}

func TestComplexityScoreBounds(t *testing.T) {
	long := ""
	for i := 0; i < 120; i++ {
		long += "berechne die mathematik gleichung integral matrix "
	}
	p := buildProfile(long)
	assert.LessOrEqual(t, p.complexity, 1.0)
	assert.GreaterOrEqual(t, p.complexity, 0.0)
}
