package fim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClipboard struct {
	text string
	err  error
}

func (f fixedClipboard) ReadText() (string, error) { return f.text, f.err }

func TestBuildClipboardContextFitsWithinBudget(t *testing.T) {
	tok, err := NewTokenizer()
	require.NoError(t, err)

	ctx := BuildClipboardContext(fixedClipboard{text: "short snippet"}, tok, ClipboardContextBudget)

	assert.Equal(t, ClipboardFits, ctx.Kind)
	assert.Equal(t, "short snippet", ctx.Text)
}

func TestBuildClipboardContextTruncatesOverBudget(t *testing.T) {
	tok, err := NewTokenizer()
	require.NoError(t, err)

	huge := strings.Repeat("word ", 500)
	ctx := BuildClipboardContext(fixedClipboard{text: huge}, tok, ClipboardContextBudget)

	assert.Equal(t, ClipboardTruncated, ctx.Kind)
	assert.Equal(t, ClipboardContextBudget, ctx.UsedTokens)
}

func TestBuildClipboardContextEmptyWhenNothingOnClipboard(t *testing.T) {
	tok, err := NewTokenizer()
	require.NoError(t, err)

	ctx := BuildClipboardContext(fixedClipboard{text: ""}, tok, ClipboardContextBudget)

	assert.Equal(t, ClipboardEmpty, ctx.Kind)
}

func TestBuildClipboardContextRedactsDetectedSecrets(t *testing.T) {
	tok, err := NewTokenizer()
	require.NoError(t, err)

	leaked := "here is my key: sk-" + strings.Repeat("a", 40)
	ctx := BuildClipboardContext(fixedClipboard{text: leaked}, tok, ClipboardContextBudget)

	assert.NotContains(t, ctx.Text, "sk-"+strings.Repeat("a", 40))
}

func TestBuildClipboardContextEmptyWhenReaderNil(t *testing.T) {
	tok, err := NewTokenizer()
	require.NoError(t, err)

	ctx := BuildClipboardContext(nil, tok, ClipboardContextBudget)

	assert.Equal(t, ClipboardEmpty, ctx.Kind)
}
