// Package narrative turns structured cluster summaries into prompts for the
// text generation oracle and validates the text that comes back. The
// validator is the hard boundary between nondeterministic generated text and
// the deterministic presentation layer: every block handed downstream either
// satisfies the contract or is explicitly marked incomplete.
package narrative

import (
	"regexp"
	"strings"

	"aidigest/internal/config"
	"aidigest/internal/core"
)

// Contract violation labels.
const (
	ViolationEmpty          = "empty"
	ViolationUnderLength    = "under_length"
	ViolationTruncated      = "truncated"
	ViolationMissingCompany = "missing_company_name"
	forbiddenTermPrefix     = "forbidden_term:"
)

// Validator enforces and repairs the structural contract on oracle output.
// It only accepts, truncates, or rejects; rewriting text content is outside
// its authority.
type Validator struct {
	cfg       config.Narrative
	forbidden []termPattern
	companies []termPattern
}

type termPattern struct {
	term    string
	pattern *regexp.Regexp
}

// NewValidator creates a validator for the configured contract.
func NewValidator(cfg config.Narrative) *Validator {
	return &Validator{
		cfg:       cfg,
		forbidden: compileTerms(cfg.ForbiddenTerms),
		companies: compileTerms(cfg.CompanyNames),
	}
}

// ValidateAndRepair validates raw oracle text for the given slot. Over-length
// output is truncated at the last complete sentence within range, never
// mid-sentence. Under-length output is flagged but never fabricated. Text
// that does not end on a sentence boundary is cut back to the last complete
// sentence; when no complete sentence exists, the block is marked incomplete
// for the caller to regenerate or omit.
func (v *Validator) ValidateAndRepair(slot, raw string) core.NarrativeBlock {
	block := core.NarrativeBlock{Slot: slot, RawText: raw}

	text := strings.TrimSpace(raw)
	if text == "" {
		block.Violations = append(block.Violations, ViolationEmpty)
		return block
	}

	sentences, remainder := SplitSentences(text)

	if remainder != "" {
		if !v.cfg.TruncationRepair || len(sentences) == 0 {
			block.Violations = append(block.Violations, ViolationTruncated)
			return block
		}
		block.Violations = append(block.Violations, ViolationTruncated)
	}

	if len(sentences) > v.cfg.MaxSentences {
		sentences = sentences[:v.cfg.MaxSentences]
	}
	if len(sentences) < v.cfg.MinSentences {
		block.Violations = append(block.Violations, ViolationUnderLength)
	}

	repaired := strings.Join(sentences, " ")
	block.RepairedText = repaired
	block.SentenceCount = len(sentences)
	block.IsComplete = len(sentences) > 0

	for _, fp := range v.forbidden {
		if fp.pattern.MatchString(repaired) {
			block.Violations = append(block.Violations, forbiddenTermPrefix+fp.term)
		}
	}

	if len(v.companies) > 0 {
		found := false
		for _, cp := range v.companies {
			if cp.pattern.MatchString(repaired) {
				found = true
				break
			}
		}
		if !found {
			block.Violations = append(block.Violations, ViolationMissingCompany)
		}
	}

	return block
}

// sentenceEnd matches a sentence body up to a terminal punctuation run,
// including any closing quote or bracket that follows it.
var sentenceEnd = regexp.MustCompile(`[.!?]+["')\]]*`)

// SplitSentences splits text on terminal punctuation boundaries. It returns
// the complete sentences and any trailing fragment that does not end on a
// boundary.
func SplitSentences(text string) (sentences []string, remainder string) {
	text = strings.TrimSpace(text)
	for text != "" {
		loc := sentenceEnd.FindStringIndex(text)
		if loc == nil {
			return sentences, text
		}
		sentence := strings.TrimSpace(text[:loc[1]])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		text = strings.TrimSpace(text[loc[1]:])
	}
	return sentences, ""
}

func compileTerms(terms []string) []termPattern {
	compiled := make([]termPattern, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		compiled = append(compiled, termPattern{
			term:    strings.ToLower(term),
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}
	return compiled
}
