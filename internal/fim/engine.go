package fim

import (
	"context"
	"strings"

	"github.com/codefionn/modelbroker/internal/llm"
	"github.com/codefionn/modelbroker/internal/logger"
	"github.com/codefionn/modelbroker/internal/syntax"
)

// Request describes one fill-in-middle completion request: a file's full
// text plus the cursor position splitting it into prefix and suffix.
type Request struct {
	FilePath string
	Language string
	FullText string
	Cursor   int // byte offset into FullText
	Model    llm.ModelKind
}

// Result is the streamed-and-terminated completion text, plus the reason
// the engine stopped collecting further deltas.
type Result struct {
	Text        string
	StopReason  TerminationReason
	Context     AssembledContext
	SyntaxValid bool
	SyntaxIssue string
}

// TerminationReason names which immediate_termination rule (if any) ended
// collection, or that the provider itself finished the stream first.
type TerminationReason string

const (
	StopProviderDone         TerminationReason = "provider_done"
	StopCodeInsertedSentinel TerminationReason = "code_inserted_sentinel"
	StopIndentationMismatch  TerminationReason = "indentation_mismatch"
	StopClosingBracket       TerminationReason = "closing_bracket"
	StopContextCanceled      TerminationReason = "context_canceled"
)

// Broker is the subset of *llm.Broker the FIM engine depends on, narrowed
// to ease testing with a fake.
type Broker interface {
	StreamCompletion(ctx context.Context, cred llm.ProviderCredential, req llm.CompletionRequest, providerHint string) (<-chan llm.StreamEvent, error)
}

// Engine runs the nine-step fill-in-middle pipeline: split prefix/suffix
// around the cursor, assemble bounded context, build the completion
// request, dispatch it through the broker, and collect the streamed
// response until either the provider finishes or one of the
// immediate-termination rules fires.
type Engine struct {
	broker    Broker
	assembler *ContextAssembler
	validator *syntax.Validator
	log       *logger.Logger
}

func NewEngine(broker Broker, assembler *ContextAssembler, log *logger.Logger) *Engine {
	return &Engine{broker: broker, assembler: assembler, validator: syntax.NewValidator(), log: log.WithPrefix("fim")}
}

// Complete runs the full pipeline for req against cred.
func (e *Engine) Complete(ctx context.Context, cred llm.ProviderCredential, req Request) (Result, error) {
	// Step 1: split prefix/suffix around the cursor.
	prefix, suffix := splitAtCursor(req.FullText, req.Cursor)

	// Step 2: next non-empty line after the cursor, used by the
	// indentation-comparison termination rules below.
	nextLine := nextNonEmptyLine(suffix)

	// Step 3: pick the codebase-context budget by model family.
	codebaseBudget := CodebaseContextBudget
	if req.Model.IsAnthropic() {
		codebaseBudget = AnthropicCodebaseContextBudget
	}

	// Step 4: assemble clipboard/codebase/type-definition context.
	assembled := e.assembler.Assemble(req.FilePath, req.Cursor, req.Language, codebaseBudget)

	// Step 5: build the completion request's message list.
	messages := buildFIMMessages(prefix, suffix, assembled)

	// Step 6: dispatch through the broker.
	events, err := e.broker.StreamCompletion(ctx, cred, llm.CompletionRequest{
		Model:    req.Model,
		Messages: messages,
		Metadata: map[string]string{"event_type": "fim_completion"},
	}, "")
	if err != nil {
		return Result{}, err
	}

	triggerLine := currentLine(prefix)
	indentAtCursor := indentationOf(triggerLine)
	isTriggerLineWhitespace := strings.TrimSpace(triggerLine) == ""

	// Anthropic echoes an opening <code_inserted> wrapper tag as the very
	// first line of its raw completion; every other family never emits it.
	skipStartLine := ""
	if req.Model.IsAnthropic() {
		skipStartLine = "<code_inserted>"
	}

	// Step 7-9: collect streamed text, applying the immediate-termination
	// rule table after every delta.
	post := llm.NewOutputPostProcessor(req.Model, skipStartLine, isTriggerLineWhitespace, indentAtCursor)
	var accumulated strings.Builder // post-processed text returned to the caller
	var raw strings.Builder         // unprocessed text the termination rules evaluate
	reason := StopProviderDone

collect:
	for {
		select {
		case <-ctx.Done():
			reason = StopContextCanceled
			break collect
		case ev, ok := <-events:
			if !ok {
				break collect
			}
			switch ev.Kind {
			case llm.StreamEventTextDelta:
				accumulated.WriteString(post.Feed(ev.TextDelta))
				raw.WriteString(ev.TextDelta)

				if terminate, why := immediateTerminatingCondition(raw.String(), ev.TextDelta, indentAtCursor, nextLine, req.Model); terminate {
					reason = why
					break collect
				}
			case llm.StreamEventDone:
				accumulated.WriteString(post.Flush())
				break collect
			}
		}
	}

	result := Result{Text: accumulated.String(), StopReason: reason, Context: assembled, SyntaxValid: true}
	if e.validator.SupportsLanguage(req.Language) {
		rebuilt := prefix + result.Text + suffix
		validation, err := e.validator.Validate(rebuilt, req.Language)
		if err != nil {
			e.log.Warn("syntax validation failed to run: %v", err)
		} else {
			result.SyntaxValid = validation.Valid
			if !validation.Valid && len(validation.Errors) > 0 {
				result.SyntaxIssue = validation.Errors[0].Message
			}
		}
	}

	return result, nil
}

func splitAtCursor(text string, cursor int) (prefix, suffix string) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	return text[:cursor], text[cursor:]
}

func currentLine(prefix string) string {
	idx := strings.LastIndexByte(prefix, '\n')
	if idx < 0 {
		return prefix
	}
	return prefix[idx+1:]
}

func nextNonEmptyLine(suffix string) string {
	for _, line := range strings.Split(suffix, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func indentationOf(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

func buildFIMMessages(prefix, suffix string, ctxResult AssembledContext) []llm.Message {
	var system strings.Builder
	system.WriteString("Complete the code at the cursor. Only output the missing code, nothing else.\n")
	if ctxResult.CodeBase.Text != "" {
		system.WriteString(ctxResult.CodeBase.Text)
	}
	if ctxResult.TypeDefinition.Text != "" {
		system.WriteString(ctxResult.TypeDefinition.Text)
	}
	if ctxResult.Clipboard.Kind != ClipboardEmpty {
		system.WriteString("Clipboard:\n")
		system.WriteString(ctxResult.Clipboard.Text)
		system.WriteString("\n")
	}

	user := "<prefix>\n" + prefix + "\n</prefix>\n<suffix>\n" + suffix + "\n</suffix>"

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system.String()},
		{Role: llm.RoleUser, Content: user},
	}
}

// immediateTerminatingCondition is the rule table deciding whether to stop
// collecting further deltas, evaluated top to bottom -- the first matching
// rule wins. Ported from immediate_terminating_condition
// (inline_completion/types.rs:697-817), collapsing its three-way
// Immediate/Next/Not outcome to a boolean: both Immediate and Next stop
// collection here, since the triggering delta has already been appended to
// the output by the caller before this function runs (the same effect as
// the original's "send the current line, then stop").
//
//  1. For Anthropic models only, a delta that is exactly the
//     `</code_inserted>` sentinel stops collection immediately. Other model
//     families never emit this sentinel, so the check never runs for them.
//  2. An empty delta means nothing new arrived; collection continues
//     without evaluating the remaining rules.
//  3. Failsafe: if the accumulated text so far is itself a prefix of the
//     delta that was just folded into it (true on the very first
//     non-empty delta), there isn't enough context yet to judge
//     indentation or brackets -- continue.
//  4. Indentation rule: the delta's own leading-whitespace count is
//     compared against the cursor line's leading-whitespace count, not
//     against any previously completed line. Shallower indentation means
//     the model has dedented past the original scope; equal indentation
//     means it has likely started repeating a line that was already
//     there. Either way, collection stops.
//  5. For Anthropic models, once rule 4 has not matched, nothing below
//     applies -- Anthropic's own stop-sequence handling already covers
//     bracket-closing well enough that re-deriving it here produces false
//     positives.
//  6. If the line already waiting in the suffix (nextLine) is
//     bracket-closing-heavy and the delta is made entirely of closing
//     punctuation, or the delta already reproduces nextLine verbatim,
//     collection stops -- the model is duplicating code already present.
//  7. If the delta, trimmed, is made entirely of closing punctuation,
//     collection stops after including it.
//
// Note: the original carries a commented-out Levenshtein-distance
// next-line-similarity check as dead code. It is inactive there and is not
// implemented here.
func immediateTerminatingCondition(accumulated, lastDelta, cursorIndent, nextLine string, model llm.ModelKind) (bool, TerminationReason) {
	if model.IsAnthropic() && lastDelta == codeInsertedMarker {
		return true, StopCodeInsertedSentinel
	}

	if lastDelta == "" {
		return false, ""
	}

	if strings.HasPrefix(accumulated, lastDelta) {
		return false, ""
	}

	deltaIndent := leadingWhitespaceCount(lastDelta)
	cursorIndentCount := len(cursorIndent)
	if deltaIndent < cursorIndentCount {
		return true, StopIndentationMismatch
	}
	if deltaIndent == cursorIndentCount {
		return true, StopIndentationMismatch
	}

	if model.IsAnthropic() {
		return false, ""
	}

	if nextLine != "" {
		nextLineClosing := countBracketChars(nextLine, isClosingBracketChar)
		nextLineOpening := countBracketChars(nextLine, isOpeningBracketChar)
		if nextLineClosing > nextLineOpening && isAllClosingBracketChars(lastDelta) {
			return true, StopClosingBracket
		}
		if strings.HasPrefix(lastDelta, nextLine) {
			return true, StopClosingBracket
		}
	}

	if isAllClosingBracketChars(strings.TrimSpace(lastDelta)) {
		return true, StopClosingBracket
	}

	return false, ""
}

const codeInsertedMarker = "</code_inserted>"

func leadingWhitespaceCount(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

func isClosingBracketChar(r rune) bool {
	switch r {
	case ')', ']', '}', '`', '"', ';':
		return true
	default:
		return false
	}
}

func isOpeningBracketChar(r rune) bool {
	switch r {
	case '(', '[', '{':
		return true
	default:
		return false
	}
}

// isAllClosingBracketChars reports whether every rune in s is a closing
// bracket character. Vacuously true for an empty string, matching Rust's
// Iterator::all on an empty iterator.
func isAllClosingBracketChars(s string) bool {
	for _, r := range s {
		if !isClosingBracketChar(r) {
			return false
		}
	}
	return true
}

func countBracketChars(s string, pred func(rune) bool) int {
	n := 0
	for _, r := range s {
		if pred(r) {
			n++
		}
	}
	return n
}
