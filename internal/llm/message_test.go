package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForAnthropicFoldsSameRoleRuns(t *testing.T) {
	model := ParseModelKind("claude-3-5-sonnet")
	messages := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "first"},
		{Role: RoleAssistant, Content: "second"},
		{Role: RoleUser, Content: "thanks"},
	}

	out := NormalizeForAnthropic(model, messages)

	assert.Len(t, out, 3)
	assert.Equal(t, "first\nsecond", out[1].Content)
}

func TestNormalizeForAnthropicSubstitutesEmptySentinel(t *testing.T) {
	model := ParseModelKind("claude-3-5-sonnet")
	messages := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: ""},
	}

	out := NormalizeForAnthropic(model, messages)

	assert.Len(t, out, 2)
	assert.Equal(t, EmptyContentSentinel, out[1].Content)
}

func TestNormalizeForAnthropicSubstitutesSentinelIntoMidRunEmptyFold(t *testing.T) {
	model := ParseModelKind("claude-3-5-sonnet")
	messages := []Message{
		{Role: RoleUser, Content: "a"},
		{Role: RoleUser, Content: ""},
		{Role: RoleAssistant, Content: ""},
		{Role: RoleUser, Content: "b"},
	}

	out := NormalizeForAnthropic(model, messages)

	require := []Message{
		{Role: RoleUser, Content: "a\n" + EmptyContentSentinel},
		{Role: RoleAssistant, Content: EmptyContentSentinel},
		{Role: RoleUser, Content: "b"},
	}
	assert.Len(t, out, len(require))
	for i := range require {
		assert.Equal(t, require[i].Role, out[i].Role)
		assert.Equal(t, require[i].Content, out[i].Content)
	}
}

func TestNormalizeForAnthropicIsNoOpForNonAnthropicModels(t *testing.T) {
	model := ParseModelKind("gpt-4o")
	messages := []Message{
		{Role: RoleAssistant, Content: "a"},
		{Role: RoleAssistant, Content: "b"},
	}

	out := NormalizeForAnthropic(model, messages)

	assert.Len(t, out, 2)
}

func TestTrimTrailingAssistantMessages(t *testing.T) {
	messages := []Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
		{Role: RoleAssistant, Content: "", ToolCalls: nil},
	}

	out := TrimTrailingAssistantMessages(messages)
	assert.Len(t, out, 1)
	assert.Equal(t, RoleUser, out[0].Role)
}

func TestTrimTrailingAssistantMessagesKeepsToolCallingTurn(t *testing.T) {
	messages := []Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "1", Name: "x"}}},
	}

	out := TrimTrailingAssistantMessages(messages)
	assert.Len(t, out, 2)
}
