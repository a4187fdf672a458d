package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/scout-cli/internal/model"
)

func TestTopRecommendation_MaximisesScore(t *testing.T) {
	opps := []model.AIOpportunity{
		{ID: "a", Impact: 3, Complexity: 4}, // score 2
		{ID: "b", Impact: 4, Complexity: 2}, // score 6
		{ID: "c", Impact: 5, Complexity: 5}, // score 5
	}
	top := topRecommendation(opps)
	require.NotNil(t, top)
	assert.Equal(t, "b", top.ID)
}

func TestTopRecommendation_TieGoesToFirst(t *testing.T) {
	opps := []model.AIOpportunity{
		{ID: "first", Impact: 4, Complexity: 2},  // score 6
		{ID: "second", Impact: 5, Complexity: 4}, // score 6
	}
	top := topRecommendation(opps)
	require.NotNil(t, top)
	assert.Equal(t, "first", top.ID)
}

func TestTopRecommendation_EmptyList(t *testing.T) {
	assert.Nil(t, topRecommendation(nil))
	assert.Nil(t, topRecommendation([]model.AIOpportunity{}))
}

func TestTopRecommendation_ReturnsCopy(t *testing.T) {
	opps := []model.AIOpportunity{{ID: "only", Impact: 3, Complexity: 1}}
	top := topRecommendation(opps)
	require.NotNil(t, top)
	top.ID = "mutated"
	assert.Equal(t, "only", opps[0].ID)
}

func TestSummarize_TrimsReply(t *testing.T) {
	ai := &mockReasoningClient{}
	ai.On("Complete", mock.Anything, promptContaining(summaryMarker)).
		Return("\n  Acme could benefit greatly from a chatbot.  \n", nil)

	p := New(testConfig(), ai, &stubFetcher{})
	summary, err := p.summarize(context.Background(), testDiscovery(), []model.AIOpportunity{
		{Title: "Order chatbot", Category: model.OpportunityChatbot, Impact: 4, Complexity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme could benefit greatly from a chatbot.", summary)
	ai.AssertExpectations(t)
}

func TestSummarize_ModelCallErrorIsFatal(t *testing.T) {
	ai := &mockReasoningClient{}
	ai.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	p := New(testConfig(), ai, &stubFetcher{})
	_, err := p.summarize(context.Background(), testDiscovery(), nil)
	assert.Error(t, err)
}

func TestOpportunityDigest(t *testing.T) {
	digest := opportunityDigest([]model.AIOpportunity{
		{Title: "Order chatbot", Category: model.OpportunityChatbot, Impact: 4, Complexity: 2, Description: "Faster replies"},
	})
	assert.Contains(t, digest, "Order chatbot")
	assert.Contains(t, digest, "impact 4/5")

	assert.Contains(t, opportunityDigest(nil), "none identified")
}
