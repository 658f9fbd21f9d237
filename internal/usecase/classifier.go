package usecase

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
)

// queryProfile carries everything the signal rules look at, computed once
// per classification.
type queryProfile struct {
	raw           string
	norm          string
	tokens        int
	linuxHits     []string
	codeHits      []string
	indicatorHits []string
	mathTags      []string
	complexity    float64
}

// Classifier routes a query to one of the three model tiers. It is
// stateless and deterministic: the same query always yields the same
// result.
type Classifier struct {
	rules  []signalRule
	logger *zap.Logger
}

func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{
		rules:  classifierRules(),
		logger: logger,
	}
}

// Classify evaluates the signal rules in priority order and returns the
// tier of the first rule that matches, or the fast tier when none do.
func (c *Classifier) Classify(query string) *entity.ClassificationResult {
	p := buildProfile(query)

	for _, r := range c.rules {
		tags := r.match(p)
		if len(tags) == 0 {
			continue
		}
		result := &entity.ClassificationResult{
			Tier:            r.tier,
			ComplexityScore: p.complexity,
			Reasoning:       ruleReasoning(r, tags, p.complexity),
			MatchedSignals:  tags,
		}
		c.logger.Debug("query classified",
			zap.String("tier", string(result.Tier)),
			zap.String("rule", r.name),
			zap.Float64("complexity", p.complexity),
			zap.Int("tokens", p.tokens))
		return result
	}

	c.logger.Debug("query classified",
		zap.String("tier", string(entity.TierFast)),
		zap.String("rule", "default"),
		zap.Float64("complexity", p.complexity),
		zap.Int("tokens", p.tokens))
	return &entity.ClassificationResult{
		Tier:            entity.TierFast,
		ComplexityScore: p.complexity,
		Reasoning:       fmt.Sprintf("fast tier selected: no signals matched; complexity=%.2f", p.complexity),
	}
}

func ruleReasoning(r signalRule, tags []string, complexity float64) string {
	shown := tags
	if len(shown) > 5 {
		shown = shown[:5]
	}
	return fmt.Sprintf("%s tier selected: rule %s matched (%s); complexity=%.2f",
		r.tier, r.name, strings.Join(shown, ", "), complexity)
}

func buildProfile(query string) *queryProfile {
	p := &queryProfile{
		raw:    query,
		norm:   normalizeQuery(query),
		tokens: len(strings.Fields(query)),
	}
	p.linuxHits = containsAny(p.norm, linuxKeywords)
	p.codeHits = containsAny(p.norm, codeDensityKeywords)
	p.indicatorHits = containsAny(p.norm, complexityIndicators)
	p.mathTags = mathSignalTags(p.norm)
	p.complexity = complexityScore(p)
	return p
}

func mathSignalTags(norm string) []string {
	var tags []string
	for _, pat := range algebraPatterns {
		if m := pat.FindString(norm); m != "" {
			tags = append(tags, strings.TrimSpace(m))
		}
	}
	for _, pat := range mathPhrasePatterns {
		if m := pat.FindString(norm); m != "" {
			tags = append(tags, strings.TrimSpace(m))
		}
	}
	tags = append(tags, mathKeywordPattern.FindAllString(norm, -1)...)
	return dedupe(tags)
}

// complexityScore approximates how much reasoning a query demands on a
// 0..1 scale. Inputs: query length, domain keyword density, task
// indicators and mathematical signals.
func complexityScore(p *queryProfile) float64 {
	var score float64

	switch {
	case p.tokens > 100:
		score += 0.3
	case p.tokens > 50:
		score += 0.2
	case p.tokens > 20:
		score += 0.1
	}

	tokens := p.tokens
	if tokens < 1 {
		tokens = 1
	}
	density := float64(len(p.linuxHits)+len(p.codeHits)) / float64(tokens) * 2
	if density > 0.4 {
		density = 0.4
	}
	score += density

	indicators := float64(len(p.indicatorHits)) * 0.1
	if indicators > 0.3 {
		indicators = 0.3
	}
	score += indicators

	switch {
	case len(p.mathTags) >= 3:
		score += 0.5
	case len(p.mathTags) == 2:
		score += 0.4
	case len(p.mathTags) == 1:
		score += 0.3
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
