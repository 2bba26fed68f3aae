package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToolCallIDsFillsMissingIDs(t *testing.T) {
	calls := []ToolCall{
		{Name: "read_file"},
		{ID: "already-set", Name: "shell"},
		{Name: ""},
	}

	out := NormalizeToolCallIDs(calls)

	assert.Equal(t, "call_read_file_1", out[0].ID)
	assert.Equal(t, "already-set", out[1].ID)
	assert.Equal(t, "call_3", out[2].ID)
}

func TestSanitizeToolNameStripsUnsafeCharacters(t *testing.T) {
	assert.Equal(t, "read_file", sanitizeToolName("read file!"))
	assert.Equal(t, "", sanitizeToolName("   "))
}
