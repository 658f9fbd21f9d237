package client

import (
	"fmt"
	"strings"

	"hybridgate/internal/domain/entity"
)

const systemPrompt = "You are a helpful Linux system administrator assistant. " +
	"Provide accurate, practical advice for Linux administration tasks."

var technicalIndicators = []string{
	"sudo", "systemctl", "journalctl", "grep", "awk", "sed",
	"chmod", "chown", "/etc/", "/var/", "apt", "docker",
}

var hedgeWords = []string{
	"might", "maybe", "possibly", "not sure", "unclear",
	"vielleicht", "möglicherweise", "unsicher",
}

// estimateConfidence scores a provider answer heuristically. Providers do
// not report calibrated confidence, so length, technical density and
// hedging have to stand in.
func estimateConfidence(response string) float64 {
	conf := 0.5
	if len(response) > 100 {
		conf += 0.1
	}
	if len(response) > 300 {
		conf += 0.1
	}

	lower := strings.ToLower(response)
	tech := 0.0
	for _, ind := range technicalIndicators {
		if strings.Contains(lower, ind) {
			tech += 0.05
		}
	}
	if tech > 0.2 {
		tech = 0.2
	}
	conf += tech

	for _, w := range hedgeWords {
		if strings.Contains(lower, w) {
			conf -= 0.1
		}
	}
	return entity.Clamp01(conf)
}

// buildPrompt prepends optional caller context to the query.
func buildPrompt(query, queryContext string) string {
	if queryContext == "" {
		return query
	}
	return fmt.Sprintf("Context:\n%s\n\nQuery:\n%s", queryContext, query)
}
