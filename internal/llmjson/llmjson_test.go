package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_FencedBlock(t *testing.T) {
	text := "Here you go:\n```json\n{\"name\": \"Acme\"}\n```\nLet me know if you need more."
	raw, ok := Extract(text)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name": "Acme"}`, string(raw))
}

func TestExtract_BareObject(t *testing.T) {
	text := `The answer is {"industry": "retail", "pages": []} as requested.`
	raw, ok := Extract(text)
	assert.True(t, ok)
	assert.JSONEq(t, `{"industry": "retail", "pages": []}`, string(raw))
}

func TestExtract_BareArray(t *testing.T) {
	text := `Opportunities: [1, 2, 3]`
	raw, ok := Extract(text)
	assert.True(t, ok)
	assert.JSONEq(t, `[1, 2, 3]`, string(raw))
}

func TestExtract_NestedBraces(t *testing.T) {
	text := `{"a": {"b": {"c": 1}}} trailing`
	raw, ok := Extract(text)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a": {"b": {"c": 1}}}`, string(raw))
}

func TestExtract_BracesInsideStrings(t *testing.T) {
	text := `{"note": "uses { and } inside", "n": 1}`
	raw, ok := Extract(text)
	assert.True(t, ok)
	assert.JSONEq(t, `{"note": "uses { and } inside", "n": 1}`, string(raw))
}

func TestExtract_EscapedQuotes(t *testing.T) {
	text := `{"quote": "she said \"hi\" {}", "n": 2}`
	raw, ok := Extract(text)
	assert.True(t, ok)
	assert.JSONEq(t, `{"quote": "she said \"hi\" {}", "n": 2}`, string(raw))
}

func TestExtract_FenceWinsOverLaterObject(t *testing.T) {
	text := "```json\n[\"fenced\"]\n```\n{\"later\": true}"
	raw, ok := Extract(text)
	assert.True(t, ok)
	assert.JSONEq(t, `["fenced"]`, string(raw))
}

func TestExtract_NoJSON(t *testing.T) {
	raw, ok := Extract("I'm sorry, I cannot produce that.")
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestExtract_MalformedJSON(t *testing.T) {
	raw, ok := Extract(`{"broken": `)
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestExtract_Empty(t *testing.T) {
	_, ok := Extract("")
	assert.False(t, ok)
}

func TestUnmarshal_Struct(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	ok := Unmarshal("```json\n{\"name\": \"Acme\"}\n```", &out)
	assert.True(t, ok)
	assert.Equal(t, "Acme", out.Name)
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	var out []string
	ok := Unmarshal(`{"not": "an array"}`, &out)
	assert.False(t, ok)
}
