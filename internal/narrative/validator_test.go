package narrative

import (
	"strings"
	"testing"

	"aidigest/internal/config"
)

func testNarrativeConfig() config.Narrative {
	return config.Narrative{
		MinSentences:     2,
		MaxSentences:     3,
		ForbiddenTerms:   []string{"robust", "landscape"},
		CompanyNames:     []string{"OpenAI", "DeepMind", "NVIDIA"},
		TruncationRepair: true,
	}
}

func hasViolation(violations []string, want string) bool {
	for _, v := range violations {
		if v == want {
			return true
		}
	}
	return false
}

func TestValidateAndRepair_ValidText(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	block := v.ValidateAndRepair("executive_summary", "OpenAI released a new model. DeepMind answered with benchmarks.")

	if !block.IsComplete {
		t.Errorf("block should be complete: %+v", block)
	}
	if block.SentenceCount != 2 {
		t.Errorf("SentenceCount = %d, want 2", block.SentenceCount)
	}
	if len(block.Violations) != 0 {
		t.Errorf("Violations = %v, want none", block.Violations)
	}
	if block.RepairedText != block.RawText {
		t.Errorf("valid text should pass through unchanged: %q", block.RepairedText)
	}
}

func TestValidateAndRepair_TruncatesOverLength(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	raw := "OpenAI shipped one. DeepMind shipped two. NVIDIA shipped three. Then came four. And finally five."
	block := v.ValidateAndRepair("executive_summary", raw)

	if block.SentenceCount != 3 {
		t.Errorf("SentenceCount = %d, want truncation to 3", block.SentenceCount)
	}
	want := "OpenAI shipped one. DeepMind shipped two. NVIDIA shipped three."
	if block.RepairedText != want {
		t.Errorf("RepairedText = %q, want %q", block.RepairedText, want)
	}
	if !block.IsComplete {
		t.Errorf("truncated-to-range text is still complete")
	}
	if len(block.Violations) != 0 {
		t.Errorf("over-length alone is repaired silently, got %v", block.Violations)
	}
}

func TestValidateAndRepair_NeverCutsMidSentence(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	raw := "OpenAI shipped a model. DeepMind released results. And then everything sudden"
	block := v.ValidateAndRepair("executive_summary", raw)

	if !block.IsComplete {
		t.Fatalf("two complete sentences remain, block should be complete: %+v", block)
	}
	if !hasViolation(block.Violations, ViolationTruncated) {
		t.Errorf("Violations = %v, want truncated recorded", block.Violations)
	}
	if !strings.HasSuffix(block.RepairedText, ".") {
		t.Errorf("RepairedText must end on a sentence boundary: %q", block.RepairedText)
	}
	if strings.Contains(block.RepairedText, "sudden") {
		t.Errorf("dangling fragment must be dropped: %q", block.RepairedText)
	}
}

func TestValidateAndRepair_NoCompleteSentence(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	block := v.ValidateAndRepair("executive_summary", "a fragment that never ends")

	if block.IsComplete {
		t.Errorf("fragment-only text must be incomplete")
	}
	if !hasViolation(block.Violations, ViolationTruncated) {
		t.Errorf("Violations = %v, want truncated", block.Violations)
	}
	if block.RepairedText != "" {
		t.Errorf("RepairedText = %q, want empty", block.RepairedText)
	}
}

func TestValidateAndRepair_RepairDisabled(t *testing.T) {
	cfg := testNarrativeConfig()
	cfg.TruncationRepair = false
	v := NewValidator(cfg)

	block := v.ValidateAndRepair("executive_summary", "OpenAI shipped a model. And then everything sudden")

	if block.IsComplete {
		t.Errorf("with repair disabled a dangling fragment fails the block")
	}
	if !hasViolation(block.Violations, ViolationTruncated) {
		t.Errorf("Violations = %v, want truncated", block.Violations)
	}
}

func TestValidateAndRepair_Empty(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	for _, raw := range []string{"", "   ", "\n\t"} {
		block := v.ValidateAndRepair("executive_summary", raw)
		if block.IsComplete {
			t.Errorf("empty input %q must be incomplete", raw)
		}
		if !hasViolation(block.Violations, ViolationEmpty) {
			t.Errorf("Violations = %v, want empty", block.Violations)
		}
	}
}

func TestValidateAndRepair_UnderLength(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	block := v.ValidateAndRepair("executive_summary", "OpenAI shipped a model.")

	if !block.IsComplete {
		t.Errorf("a single complete sentence is still complete")
	}
	if !hasViolation(block.Violations, ViolationUnderLength) {
		t.Errorf("Violations = %v, want under_length", block.Violations)
	}
	if block.RepairedText != "OpenAI shipped a model." {
		t.Errorf("under-length text passes through: %q", block.RepairedText)
	}
}

func TestValidateAndRepair_ForbiddenTerm(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	block := v.ValidateAndRepair("executive_summary", "OpenAI built a robust system. DeepMind agreed with them.")

	if !hasViolation(block.Violations, "forbidden_term:robust") {
		t.Errorf("Violations = %v, want forbidden_term:robust", block.Violations)
	}
	if !block.IsComplete {
		t.Errorf("forbidden terms are flagged, not fatal")
	}
	if !strings.Contains(block.RepairedText, "robust") {
		t.Errorf("flagged text must pass through unaltered: %q", block.RepairedText)
	}
}

func TestValidateAndRepair_ForbiddenTermBoundary(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	// "robustness" contains "robust" only as a prefix.
	block := v.ValidateAndRepair("executive_summary", "OpenAI studied robustness limits. DeepMind published the data.")

	if hasViolation(block.Violations, "forbidden_term:robust") {
		t.Errorf("substring must not trigger the violation: %v", block.Violations)
	}
}

func TestValidateAndRepair_MissingCompanyName(t *testing.T) {
	v := NewValidator(testNarrativeConfig())

	block := v.ValidateAndRepair("executive_summary", "The industry moved fast. Everyone shipped something.")

	if !hasViolation(block.Violations, ViolationMissingCompany) {
		t.Errorf("Violations = %v, want missing_company_name", block.Violations)
	}
	if !block.IsComplete {
		t.Errorf("missing company name is advisory, not fatal")
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantSentences []string
		wantRemainder string
	}{
		{
			"plain sentences",
			"One here. Two there! Three maybe?",
			[]string{"One here.", "Two there!", "Three maybe?"},
			"",
		},
		{
			"closing quote after period",
			`He said "Go." Then left.`,
			[]string{`He said "Go."`, "Then left."},
			"",
		},
		{
			"trailing fragment",
			"Done. Not quite finished",
			[]string{"Done."},
			"Not quite finished",
		},
		{
			"ellipsis counts as one boundary",
			"Wait... now go.",
			[]string{"Wait...", "now go."},
			"",
		},
		{
			"no boundary at all",
			"never terminated",
			nil,
			"never terminated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences, remainder := SplitSentences(tt.text)
			if len(sentences) != len(tt.wantSentences) {
				t.Fatalf("sentences = %v, want %v", sentences, tt.wantSentences)
			}
			for i := range sentences {
				if sentences[i] != tt.wantSentences[i] {
					t.Errorf("sentence %d = %q, want %q", i, sentences[i], tt.wantSentences[i])
				}
			}
			if remainder != tt.wantRemainder {
				t.Errorf("remainder = %q, want %q", remainder, tt.wantRemainder)
			}
		})
	}
}
