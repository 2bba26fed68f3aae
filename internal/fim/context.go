package fim

// Token budgets for the three context sub-producers, carried unchanged
// from the original: a small clipboard allowance, a larger codebase-outline
// allowance, and a still-larger allowance when the target model is
// Anthropic (which tolerates/benefits from more context per request).
const (
	ClipboardContextBudget         = 50
	CodebaseContextBudget          = 3000
	AnthropicCodebaseContextBudget = 5000
)

// AssembledContext is the combined output of all three sub-producers for
// one completion request.
type AssembledContext struct {
	Clipboard      ClipboardContext
	CodeBase       CodeBaseContext
	TypeDefinition TypeDefinitionContext
}

// ContextAssembler orchestrates the clipboard, codebase-outline, and
// type-definition-outline sub-producers behind the SymbolIndex and
// ClipboardReader collaborators.
type ContextAssembler struct {
	index     SymbolIndex
	clipboard ClipboardReader
	tokenizer *Tokenizer
}

func NewContextAssembler(index SymbolIndex, clipboard ClipboardReader, tokenizer *Tokenizer) *ContextAssembler {
	return &ContextAssembler{index: index, clipboard: clipboard, tokenizer: tokenizer}
}

// Assemble produces all three sub-contexts for a cursor at position in
// filePath, written in language. codebaseBudget should be
// AnthropicCodebaseContextBudget when the target model IsAnthropic(), and
// CodebaseContextBudget otherwise -- the caller (FIMEngine) decides which,
// since budget selection depends on the model, not on context assembly.
func (c *ContextAssembler) Assemble(filePath string, position int, language string, codebaseBudget int) AssembledContext {
	return AssembledContext{
		Clipboard:      BuildClipboardContext(c.clipboard, c.tokenizer, ClipboardContextBudget),
		CodeBase:       BuildCodeBaseContext(c.index, language, c.tokenizer, codebaseBudget),
		TypeDefinition: BuildTypeDefinitionContext(c.index, filePath, position, language, c.tokenizer, codebaseBudget),
	}
}
