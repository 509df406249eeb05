package raid

import (
	"regexp"
	"strings"
)

// Rule is one ordered substring replacement used when shortening names.
// Each rule is applied to the previous rule's output (first occurrence only),
// so rules are not commutative and the configured order is preserved exactly.
type Rule struct {
	Pattern     string
	Replacement string
}

var (
	separatorRe = regexp.MustCompile(`\s|_`)
	nonWordRe   = regexp.MustCompile(`[^\w-]`)
)

// DefaultCreatureRules shorten long creature names so they fit compact
// displays. Order matters; keep more specific patterns first.
var DefaultCreatureRules = []Rule{
	{"exeggutor", "eggtor"},
	{"dragonite", "dnite"},
	{"charizard", "zard"},
	{"blastoise", "stoise"},
	{"venusaur", "venu"},
	{"gyarados", "gyara"},
	{"alakazam", "kazam"},
	{"machamp", "champ"},
	{"tyranitar", "ttar"},
	{"snorlax", "snrlx"},
}

// DefaultLocationRules shorten common gym-name words after the name has been
// lowercased and hyphenated.
var DefaultLocationRules = []Rule{
	{"washington", "wash"},
	{"crossing", "xing"},
	{"community", "comm"},
	{"memorial", "mem"},
	{"township", "twp"},
	{"church", "chrch"},
	{"library", "lib"},
	{"elementary", "elem"},
	{"monument", "mnmt"},
	{"fountain", "fntn"},
}

// Normalize converts a raw creature or location name into its canonical
// short form: lowercase, whitespace and underscores to hyphens, remaining
// non-word characters stripped, the rule table applied in order, the result
// truncated to maxLen bytes, and stray hyphens trimmed from the ends.
// Total function: never fails, worst case returns a truncated (possibly
// empty) string.
func Normalize(raw string, rules []Rule, maxLen int) string {
	s := strings.ToLower(raw)
	s = separatorRe.ReplaceAllString(s, "-")
	s = nonWordRe.ReplaceAllString(s, "")
	for _, r := range rules {
		s = strings.Replace(s, r.Pattern, r.Replacement, 1)
	}
	if maxLen >= 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.Trim(s, "-")
}

// ShortenCreature lowercases a creature name, applies the rule table in
// order and truncates. Creature names carry no separators worth joining, so
// the hyphen pass is skipped.
func ShortenCreature(raw string, rules []Rule, maxLen int) string {
	s := strings.ToLower(raw)
	for _, r := range rules {
		s = strings.Replace(s, r.Pattern, r.Replacement, 1)
	}
	if maxLen >= 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// ParseRules parses an ordered "pattern=replacement" comma-separated list
// from configuration, preserving list order. Entries without an "=" or with
// an empty pattern are skipped.
func ParseRules(s string) []Rule {
	if s == "" {
		return nil
	}
	var rules []Rule
	for _, entry := range strings.Split(s, ",") {
		pat, rep, ok := strings.Cut(entry, "=")
		pat = strings.TrimSpace(pat)
		if !ok || pat == "" {
			continue
		}
		rules = append(rules, Rule{Pattern: pat, Replacement: strings.TrimSpace(rep)})
	}
	return rules
}
