package fim

import (
	"fmt"
	"strings"
)

// formatOutline prefixes every line of content with "{commentPrefix} " and
// prepends a "File Path: {filePath}" header line, matching the original
// outline producer's exact format so downstream prompts read identically
// regardless of which sub-producer generated them.
func formatOutline(commentPrefix, filePath, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s File Path: %s\n", commentPrefix, filePath)
	for _, line := range strings.Split(content, "\n") {
		b.WriteString(commentPrefix)
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// CodeBaseContext is the assembled, token-budgeted outline of recently
// touched files in the workspace.
type CodeBaseContext struct {
	Text       string
	UsedTokens int
}

// BuildCodeBaseContext walks the index's recently-edited-files ring, most
// recent first, formatting each file's content as an outline block and
// stopping once adding the next file would exceed budget tokens.
func BuildCodeBaseContext(index SymbolIndex, language string, tok *Tokenizer, budget int) CodeBaseContext {
	prefix := index.CommentPrefix(language)

	var b strings.Builder
	used := 0
	for _, filePath := range index.RecentlyEditedFiles() {
		content, ok := index.FileContent(filePath)
		if !ok {
			continue
		}
		block := formatOutline(prefix, filePath, content)
		blockTokens := tok.Count(block)
		if used+blockTokens > budget {
			break
		}
		b.WriteString(block)
		used += blockTokens
	}

	return CodeBaseContext{Text: b.String(), UsedTokens: used}
}

// TypeDefinitionContext is the assembled, token-budgeted outline of type
// definitions relevant to the cursor position.
type TypeDefinitionContext struct {
	Text       string
	UsedTokens int
}

// BuildTypeDefinitionContext formats each relevant TypeDefinition as an
// outline block, most relevant first, stopping once budget is exhausted.
func BuildTypeDefinitionContext(index SymbolIndex, filePath string, position int, language string, tok *Tokenizer, budget int) TypeDefinitionContext {
	prefix := index.CommentPrefix(language)
	defs := index.TypeDefinitionsNear(filePath, position)

	var b strings.Builder
	used := 0
	for _, def := range defs {
		block := formatOutline(prefix, def.FilePath, def.Outline)
		blockTokens := tok.Count(block)
		if used+blockTokens > budget {
			break
		}
		b.WriteString(block)
		used += blockTokens
	}

	return TypeDefinitionContext{Text: b.String(), UsedTokens: used}
}
