package fim

import "sync"

// maxHistorySize bounds the recently-edited-files ring, matching the
// original symbol tracker's MAX_HISTORY_SIZE.
const maxHistorySize = 50

// TypeDefinition is one outline entry for a type the cursor's enclosing
// scope references -- a class, interface, struct, or similar declaration
// the model may need visibility into to produce a correct completion.
type TypeDefinition struct {
	FilePath string
	Outline  string // pre-formatted, one "{comment_prefix} " per line
}

// SymbolIndex is the opaque collaborator that knows how to find type
// definitions and recently-touched files for a given cursor position. Its
// real implementation walks tree-sitter grammars; that walk is treated as
// out-of-scope internals here and kept behind this interface, per the
// spec's own treatment of tree-sitter.
type SymbolIndex interface {
	// CommentPrefix returns the line-comment marker for language (e.g. "//"
	// for Go, "#" for Python), used to format outline headers.
	CommentPrefix(language string) string

	// TypeDefinitionsNear returns outline text for types referenced at or
	// around position in filePath, most relevant first.
	TypeDefinitionsNear(filePath string, position int) []TypeDefinition

	// RecentlyEditedFiles returns file paths the caller has recently
	// touched, most recent first, for codebase-context assembly.
	RecentlyEditedFiles() []string

	// FileContent returns the full text of filePath, or ok=false if it is
	// not tracked.
	FileContent(filePath string) (content string, ok bool)
}

// InMemorySymbolIndex is a small, test-friendly SymbolIndex backed by an
// in-process map and a bounded recency ring, matching the shape of the
// original's symbol tracker (open tabs + recently edited files + a
// per-file outline cache) without depending on a real editor or
// tree-sitter grammar walk.
type InMemorySymbolIndex struct {
	mu              sync.Mutex
	commentPrefixes map[string]string
	files           map[string]string
	typeDefs        map[string][]TypeDefinition
	recency         []string
}

func NewInMemorySymbolIndex() *InMemorySymbolIndex {
	return &InMemorySymbolIndex{
		commentPrefixes: map[string]string{
			"go":         "//",
			"python":     "#",
			"typescript": "//",
			"javascript": "//",
			"bash":       "#",
		},
		files:    map[string]string{},
		typeDefs: map[string][]TypeDefinition{},
	}
}

func (idx *InMemorySymbolIndex) CommentPrefix(language string) string {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if p, ok := idx.commentPrefixes[language]; ok {
		return p
	}
	return "//"
}

func (idx *InMemorySymbolIndex) SetFile(filePath, content string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.files[filePath] = content
	idx.touch(filePath)
}

func (idx *InMemorySymbolIndex) SetTypeDefinitions(filePath string, defs []TypeDefinition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.typeDefs[filePath] = defs
}

func (idx *InMemorySymbolIndex) touch(filePath string) {
	for i, f := range idx.recency {
		if f == filePath {
			idx.recency = append(idx.recency[:i], idx.recency[i+1:]...)
			break
		}
	}
	idx.recency = append([]string{filePath}, idx.recency...)
	if len(idx.recency) > maxHistorySize {
		idx.recency = idx.recency[:maxHistorySize]
	}
}

func (idx *InMemorySymbolIndex) TypeDefinitionsNear(filePath string, position int) []TypeDefinition {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.typeDefs[filePath]
}

func (idx *InMemorySymbolIndex) RecentlyEditedFiles() []string {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]string, len(idx.recency))
	copy(out, idx.recency)
	return out
}

func (idx *InMemorySymbolIndex) FileContent(filePath string) (string, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	content, ok := idx.files[filePath]
	return content, ok
}
