package fim

import (
	"golang.design/x/clipboard"

	"github.com/codefionn/modelbroker/internal/secretdetect"
)

// clipboardSecretDetector scans clipboard text for credentials (API keys,
// tokens, private keys) before it is ever sent to a provider.
var clipboardSecretDetector = secretdetect.NewDetector()

// ClipboardContextKind discriminates the two shapes clipboard context can
// take once measured against its token budget.
type ClipboardContextKind int

const (
	// ClipboardFits means the full clipboard text is within budget.
	ClipboardFits ClipboardContextKind = iota
	// ClipboardTruncated means the clipboard text exceeded budget and was
	// clipped to it.
	ClipboardTruncated
	// ClipboardEmpty means there was nothing on the clipboard (or reading
	// it failed), and no context is contributed.
	ClipboardEmpty
)

// ClipboardContext is the result of the clipboard sub-producer: either the
// clipboard's text fits within CLIPBOARD_CONTEXT tokens, or it was
// truncated and the actual token count used is reported so the caller's
// overall budget accounting stays exact.
type ClipboardContext struct {
	Kind       ClipboardContextKind
	Text       string
	UsedTokens int
}

// ClipboardReader abstracts the system clipboard so the FIM engine can be
// tested without touching a real display server.
type ClipboardReader interface {
	ReadText() (string, error)
}

// systemClipboard reads the OS clipboard via golang.design/x/clipboard.
type systemClipboard struct{}

func NewSystemClipboardReader() (ClipboardReader, error) {
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return systemClipboard{}, nil
}

func (systemClipboard) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

// BuildClipboardContext tokenizes the clipboard's current text and reports
// whether it fit within budget tokens, truncating if not.
func BuildClipboardContext(reader ClipboardReader, tok *Tokenizer, budget int) ClipboardContext {
	if reader == nil {
		return ClipboardContext{Kind: ClipboardEmpty}
	}

	text, err := reader.ReadText()
	if err != nil || text == "" {
		return ClipboardContext{Kind: ClipboardEmpty}
	}

	if matches := clipboardSecretDetector.Scan(text); len(matches) > 0 {
		text = secretdetect.Redact(text, matches)
	}

	clipped, used, truncated := tok.Clip(text, budget)
	if truncated {
		return ClipboardContext{Kind: ClipboardTruncated, Text: clipped, UsedTokens: used}
	}
	return ClipboardContext{Kind: ClipboardFits, Text: text, UsedTokens: used}
}
