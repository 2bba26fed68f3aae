package llm

import "strings"

// codeInsertedSentinel is a line the model sometimes emits to mark where
// previously-inserted code ends; the post-processor swallows these lines
// rather than forwarding them to the caller.
const codeInsertedSentinel = "</code_inserted>"

// runningAnswer is the single-holder state the post-processor mutates
// while draining a stream of text deltas. There is exactly one goroutine
// reading and writing it -- the original's Mutex-guarded equivalent is an
// artifact of fanning two producers into one future via stream::select;
// here that fan-in collapses to a single channel read loop, so no lock is
// needed.
type runningAnswer struct {
	answerUpToNow          string
	runningLine            string
	firstLineChecked       bool
	firstStreamableChecked bool
	firstLineIndent        string
}

// OutputPostProcessor repairs indentation on a streamed completion line by
// line, but only for Anthropic-family models and only when the completion
// was triggered from a whitespace-only line. Anthropic reproduces the full
// leading indentation of whatever line it's completing, which duplicates
// the editor's own indentation when the trigger line is blank; OpenAI,
// Gemini, and the rest never do this, so for them -- and for any
// non-whitespace trigger line, where the indentation is already correct
// because the model is continuing mid-line -- Feed/Flush pass lines
// through unchanged.
//
// skipStartLine, when non-empty, names the exact first line to drop
// outright (the original streams an echo of the trigger line back before
// its real completion; dropping it here avoids duplicating it in the
// output). isTriggerLineWhitespace and triggerLineIndentation gate and
// parametrize the indentation repair itself.
type OutputPostProcessor struct {
	model                   ModelKind
	skipStartLine           string
	isTriggerLineWhitespace bool
	triggerLineIndentation  string
	applySpecialEdits       bool

	state runningAnswer
}

func NewOutputPostProcessor(model ModelKind, skipStartLine string, isTriggerLineWhitespace bool, triggerLineIndentation string) *OutputPostProcessor {
	return &OutputPostProcessor{
		model:                   model,
		skipStartLine:           skipStartLine,
		isTriggerLineWhitespace: isTriggerLineWhitespace,
		triggerLineIndentation:  triggerLineIndentation,
		applySpecialEdits:       model.IsAnthropic(),
	}
}

// Feed processes one text delta and returns the (possibly repaired) text to
// forward to the caller. It may return an empty string if the delta only
// completed a line that should be suppressed.
func (p *OutputPostProcessor) Feed(delta string) string {
	var out strings.Builder
	p.state.runningLine += delta

	for {
		idx := strings.IndexByte(p.state.runningLine, '\n')
		if idx < 0 {
			break
		}
		line := p.state.runningLine[:idx]
		p.state.runningLine = p.state.runningLine[idx+1:]
		out.WriteString(p.processLine(line))
		out.WriteByte('\n')
	}

	p.state.answerUpToNow += out.String()
	return out.String()
}

// Flush processes any trailing partial line left in the buffer once the
// stream ends.
func (p *OutputPostProcessor) Flush() string {
	if p.state.runningLine == "" {
		return ""
	}
	line := p.state.runningLine
	p.state.runningLine = ""
	result := p.processLine(line)
	p.state.answerUpToNow += result
	return result
}

func (p *OutputPostProcessor) processLine(line string) string {
	defer func() { p.state.firstLineChecked = true }()

	if !p.applySpecialEdits {
		return line
	}

	if p.isTriggerLineWhitespace && !p.state.firstLineChecked && line == p.skipStartLine {
		return ""
	}

	if !p.state.firstStreamableChecked {
		if p.isTriggerLineWhitespace {
			p.state.firstLineIndent = getIndentDiff(line, p.triggerLineIndentation)
			line = strings.TrimLeft(line, " \t")
		}
		p.state.firstStreamableChecked = true
	} else if p.isTriggerLineWhitespace {
		line = p.state.firstLineIndent + line
	}

	if strings.TrimSpace(line) == codeInsertedSentinel {
		return ""
	}

	return line
}

// leadingWhitespace returns the leading run of spaces/tabs in s.
func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

// getIndentDiff is the exact indentation-diff algorithm from the
// original's get_indent_diff: it counts leading whitespace in both s and
// whitespace, computes the absolute difference in character count, and
// renders that many of one whitespace character -- tabs if whitespace
// starts with a tab, spaces otherwise. This is a documented simplification:
// it does not normalize mixed tab/space indentation within a single line,
// and the rendering character is decided by the *triggering* line's own
// leading whitespace, not by s's. Carried forward unchanged, not "fixed".
func getIndentDiff(s, whitespace string) string {
	sIndent := len(leadingWhitespace(s))
	wIndent := len(whitespace)

	diff := sIndent - wIndent
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		return ""
	}

	char := byte(' ')
	if len(whitespace) > 0 && whitespace[0] == '\t' {
		char = '\t'
	}

	return strings.Repeat(string(char), diff)
}
