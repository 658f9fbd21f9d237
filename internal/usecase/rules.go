package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"hybridgate/internal/domain/entity"
)

// Queries arrive in mixed German/English. All signal vocabulary below is
// written in normalized form (lower-case, diacritics stripped, ss for ß)
// and matched against the normalized query.

var queryNormalizer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeQuery(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "ß", "ss")
	out, _, err := transform.String(queryNormalizer, s)
	if err != nil {
		return s
	}
	return out
}

// algebraPatterns detect algebraic notation with single-letter variables.
// A hit is a hard override to the heavy tier regardless of query length.
var algebraPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[\s(])[xyz]\s*[+\-*/=<>]`),
	regexp.MustCompile(`[+\-*/=<>]\s*[xyz](?:[\s),.?!;]|$)`),
	regexp.MustCompile(`\b[xyz]\d*\s*[=<>]\s*-?\d`),
	regexp.MustCompile(`\bx\s*[+\-]\s*y\b`),
	regexp.MustCompile(`\bx\^\d`),
	regexp.MustCompile(`[∫∑∏√∈∀∃≈≠≤≥]`),
	regexp.MustCompile(`\bgleichungssystem\b`),
	regexp.MustCompile(`\bganze\w*\s+zahlen\b.{0,40}\b[xyz]\b`),
}

// mathKeywordPattern covers explicit mathematical vocabulary. Keyword hits
// alone never route heavy; they need the complexity proxy above
// heavyComplexityCutoff.
var mathKeywordPattern = regexp.MustCompile(`\b(lose|solve|berechne|calculate|bestimme|determine|minimiere|maximiere|gleichung\w*|equation\w*|fibonacci|mathe|mathematik|mathematisch\w*|primzahl\w*|prime|integral\w*|eigenwert\w*|matrix|polynom\w*|wahrscheinlichkeit\w*|kombinatorik|zahlentheorie|derangements|beweise|theorem|lemma)\b`)

var mathPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bmathematisch\w*\b.{0,40}\boptimal`),
	regexp.MustCompile(`\b(bestimme|berechne|finde|lose|minimiere|maximiere)\b.{0,60}\b(optimal\w*|minimum|maxim\w*|argmin|argmax)\b`),
	regexp.MustCompile(`\boptimierungsaufgabe\b`),
	regexp.MustCompile(`\bfibonacci\b.{0,20}\bzahlen\b`),
	regexp.MustCompile(`\boptimale?\s+(anzahl|grosse|puffergrosse|blockgrosse|batchgrosse)\b`),
	regexp.MustCompile(`\bbedingung\w*\b.{0,40}\berfull\w*`),
}

// basicCommandPatterns are simple command-name questions that stay on the
// fast tier even when administration vocabulary is present.
var basicCommandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`welcher\s+befehl\s+(zeigt|macht|gibt|listet)`),
	regexp.MustCompile(`was\s+macht\s+(der|das)\s+\S+\s+befehl`),
	regexp.MustCompile(`welches\s+kommando\s+(zeigt|macht)`),
	regexp.MustCompile(`^(ls|ll|pwd|cd|df|du|ps|top|htop|free|uname|cat|less|more|head|tail|which|whoami)\s*\??$`),
}

var codeKeywordPattern = regexp.MustCompile(`\b(implementiere|implement|schreibe|write a function|programmiere|entwickle|erstelle|skript|script|code|coding|funktion|function|methode|klasse|class|python|javascript|java|rust|golang|bash|shell|docker|kubernetes|ansible|terraform|systemctl|journalctl|cron\w*|iptables|nginx|grep|awk|sed|chmod|chown|rsync|ssh|debug\w*|deployment|refactor\w*|unittest|regex)\b`)

// Keyword sets feeding the complexity proxy.
var linuxKeywords = []string{
	"befehl", "command", "kommando", "bash", "shell", "terminal", "konsole",
	"systemctl", "service", "daemon", "process", "prozess",
	"grep", "awk", "sed", "find", "chmod", "chown",
	"mount", "filesystem", "disk", "ps aux", "top", "kill",
	"cron", "systemd", "log", "journal", "dmesg", "syslog",
	"docker", "container", "kubernetes",
	"ssh", "rsync", "netstat", "iptables", "firewall",
	"apt", "yum", "dnf", "pacman", "tar", "gzip",
}

var codeDensityKeywords = []string{
	"programmiere", "code", "coding", "entwickle",
	"function", "funktion", "method", "methode",
	"class", "klasse", "variable", "array",
	"debug", "fehler", "error", "exception", "traceback",
	"python", "javascript", "java", "rust", "php", "sql", "json",
	"git", "commit", "branch", "merge",
	"compile", "build", "deploy", "syntax", "import", "loop",
	"script", "skript",
}

var complexityIndicators = []string{
	"schritt fur schritt", "step by step", "anleitung",
	"tutorial", "guide", "walkthrough",
	"analysiere", "analyze", "untersuche", "examine",
	"erklare detailliert", "explain in detail",
	"vergleiche", "compare", "bewerte", "evaluate",
	"lose", "solve", "behebe", "fix",
	"optimiere", "optimize", "verbessere", "improve",
	"troubleshoot", "diagnose",
	"berechne", "calculate", "rechne", "compute",
	"mathematik", "mathematics", "formel", "formula",
	"algorithmus", "algorithm", "komplexitat",
}

const (
	heavyComplexityCutoff = 0.4
	heavyFallbackCutoff   = 0.7
	codeFallbackCutoff    = 0.4
	codeFallbackTokens    = 10
)

// signalRule is one named classification predicate. Rules are evaluated in
// priority order; the first rule returning signal tags decides the tier.
type signalRule struct {
	name  string
	tier  entity.Tier
	match func(p *queryProfile) []string
}

func classifierRules() []signalRule {
	return []signalRule{
		{name: "algebra_override", tier: entity.TierHeavy, match: matchAlgebra},
		{name: "math_keywords", tier: entity.TierHeavy, match: matchMathKeywords},
		{name: "basic_command", tier: entity.TierFast, match: matchBasicCommand},
		{name: "code_keywords", tier: entity.TierCode, match: matchCodeKeywords},
		{name: "high_complexity", tier: entity.TierHeavy, match: matchHighComplexity},
		{name: "medium_complexity", tier: entity.TierCode, match: matchMediumComplexity},
	}
}

func matchAlgebra(p *queryProfile) []string {
	var tags []string
	for _, pat := range algebraPatterns {
		if m := pat.FindString(p.norm); m != "" {
			tags = append(tags, strings.TrimSpace(m))
		}
	}
	return dedupe(tags)
}

func matchMathKeywords(p *queryProfile) []string {
	if p.complexity < heavyComplexityCutoff {
		return nil
	}
	var tags []string
	tags = append(tags, mathKeywordPattern.FindAllString(p.norm, -1)...)
	for _, pat := range mathPhrasePatterns {
		if m := pat.FindString(p.norm); m != "" {
			tags = append(tags, strings.TrimSpace(m))
		}
	}
	return dedupe(tags)
}

func matchBasicCommand(p *queryProfile) []string {
	for _, pat := range basicCommandPatterns {
		if m := pat.FindString(p.norm); m != "" {
			return []string{strings.TrimSpace(m)}
		}
	}
	return nil
}

func matchCodeKeywords(p *queryProfile) []string {
	return dedupe(codeKeywordPattern.FindAllString(p.norm, -1))
}

func matchHighComplexity(p *queryProfile) []string {
	if p.complexity >= heavyFallbackCutoff {
		return []string{"high_complexity"}
	}
	return nil
}

func matchMediumComplexity(p *queryProfile) []string {
	if p.complexity >= codeFallbackCutoff {
		return []string{"medium_complexity"}
	}
	if p.tokens > codeFallbackTokens {
		return []string{"long_query"}
	}
	return nil
}

func containsAny(s string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
