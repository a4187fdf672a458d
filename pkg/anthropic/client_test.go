package anthropic

import (
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/scout-cli/internal/resilience"
)

func TestExtractText_JoinsBlocks(t *testing.T) {
	msg := &sdk.Message{
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "first"},
			{Type: "text", Text: "second"},
		},
	}
	assert.Equal(t, "first\nsecond", extractText(msg))
}

func TestExtractText_Empty(t *testing.T) {
	assert.Empty(t, extractText(&sdk.Message{}))
}

func isMarkedTransient(err error) bool {
	var te *resilience.TransientError
	return errors.As(err, &te)
}

func TestClassify_Transient(t *testing.T) {
	assert.True(t, isMarkedTransient(classify(&sdk.Error{StatusCode: 429})))
	assert.True(t, isMarkedTransient(classify(&sdk.Error{StatusCode: 500})))
	assert.True(t, isMarkedTransient(classify(&sdk.Error{StatusCode: 503})))
}

func TestClassify_ClientError(t *testing.T) {
	assert.False(t, isMarkedTransient(classify(&sdk.Error{StatusCode: 400})))
	assert.False(t, isMarkedTransient(classify(&sdk.Error{StatusCode: 404})))
	assert.False(t, isMarkedTransient(classify(eris.New("not an api error"))))
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 4.80, u.EstimateCost("claude-haiku-4-5-20251001"), 0.001)
	assert.Zero(t, u.EstimateCost("unknown-model"))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k", Model: "claude-haiku-4-5-20251001"})
	sc, ok := c.(*sdkClient)
	assert.True(t, ok)
	assert.EqualValues(t, 2048, sc.cfg.MaxTokens)
	assert.Equal(t, 3, sc.retry.MaxAttempts)
}
