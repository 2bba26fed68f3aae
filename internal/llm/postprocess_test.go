package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputPostProcessorIndentsSubsequentLinesToMatchFirst(t *testing.T) {
	p := NewOutputPostProcessor(ParseModelKind("claude-3-5-sonnet"), "", true, "  ")

	var out string
	out += p.Feed("    func foo() {\n")
	out += p.Feed("  return 1\n")
	out += p.Flush()

	assert.Equal(t, "func foo() {\n    return 1\n", out)
}

func TestOutputPostProcessorDropsCodeInsertedSentinelLine(t *testing.T) {
	p := NewOutputPostProcessor(ParseModelKind("claude-3-5-sonnet"), "", true, "")

	out := p.Feed("line one\n</code_inserted>\nline two\n")

	assert.NotContains(t, out, "</code_inserted>")
	assert.Contains(t, out, "line one")
	assert.Contains(t, out, "line two")
}

func TestOutputPostProcessorFlushesTrailingPartialLine(t *testing.T) {
	p := NewOutputPostProcessor(ParseModelKind("claude-3-5-sonnet"), "", true, "")

	p.Feed("  partial no newline")
	out := p.Flush()

	assert.Contains(t, out, "partial no newline")
}

func TestOutputPostProcessorDropsExactSkipStartLine(t *testing.T) {
	p := NewOutputPostProcessor(ParseModelKind("claude-3-5-sonnet"), "    ", true, "  ")

	out := p.Feed("    \nindented body\n")

	assert.NotContains(t, out, "    \n")
	assert.Contains(t, out, "indented body")
}

// Non-Anthropic models never get the indentation repair, regardless of
// whether the trigger line was whitespace -- the transform exists only to
// correct Anthropic's own over-eager indentation echo.
func TestOutputPostProcessorIsNoOpForNonAnthropicModels(t *testing.T) {
	p := NewOutputPostProcessor(ParseModelKind("gpt-4o"), "", true, "  ")

	var out string
	out += p.Feed("    func foo() {\n")
	out += p.Feed("  return 1\n")
	out += p.Flush()

	assert.Equal(t, "    func foo() {\n  return 1\n", out)
}

// A non-whitespace trigger line means the model is continuing mid-line, so
// even an Anthropic completion must pass through untouched.
func TestOutputPostProcessorSkipsRepairForNonWhitespaceTriggerLine(t *testing.T) {
	p := NewOutputPostProcessor(ParseModelKind("claude-3-5-sonnet"), "", false, "  ")

	var out string
	out += p.Feed("    func foo() {\n")
	out += p.Feed("  return 1\n")
	out += p.Flush()

	assert.Equal(t, "    func foo() {\n  return 1\n", out)
}

func TestGetIndentDiffUsesSpacesWhenTriggerLineUsesSpaces(t *testing.T) {
	diff := getIndentDiff("    x", "  ")
	assert.Equal(t, "  ", diff)
}

func TestGetIndentDiffUsesTabsWhenTriggerLineUsesTabs(t *testing.T) {
	diff := getIndentDiff("\t\tx", "\t")
	assert.Equal(t, "\t", diff)
}

func TestGetIndentDiffZeroWhenEqual(t *testing.T) {
	diff := getIndentDiff("  x", "  ")
	assert.Equal(t, "", diff)
}
