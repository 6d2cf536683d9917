package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"review\": \"ok\"}\n```", `{"review": "ok"}`},
		{"generic code block", "```\n{\"review\": \"ok\"}\n```", `{"review": "ok"}`},
		{"plain JSON", `{"review": "ok"}`, `{"review": "ok"}`},
		{"preamble", "Here is the analysis:\n{\"review\": \"ok\"}", `{"review": "ok"}`},
		{"trailing chatter", "{\"a\": 1}\nLet me know if you need more.", `{"a": 1}`},
		{"array", "Result: [1, 2]", `[1, 2]`},
		{"no JSON", "nothing to see", "nothing to see"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
