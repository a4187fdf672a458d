package model

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePageCategory(t *testing.T) {
	assert.Equal(t, PageCategoryProduct, NormalizePageCategory("product"))
	assert.Equal(t, PageCategoryOther, NormalizePageCategory("pricing"))
	assert.Equal(t, PageCategoryOther, NormalizePageCategory(""))
}

func TestNormalizeOpportunityCategory(t *testing.T) {
	assert.Equal(t, OpportunityPersonalisation, NormalizeOpportunityCategory("personalisation"))
	assert.Equal(t, OpportunityOther, NormalizeOpportunityCategory("personalization"))
}

func TestOpportunityScore(t *testing.T) {
	assert.Equal(t, 6, AIOpportunity{Impact: 4, Complexity: 2}.Score())
	assert.Equal(t, -3, AIOpportunity{Impact: 1, Complexity: 5}.Score())
}

func TestProgressEvent_Terminal(t *testing.T) {
	assert.True(t, ProgressEvent{Stage: StageComplete}.Terminal())
	assert.True(t, ProgressEvent{Stage: StageError}.Terminal())
	assert.False(t, ProgressEvent{Stage: StageFetching}.Terminal())
}

func TestEventWriter_NDJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewEventWriter(&buf)

	in := []ProgressEvent{
		{Stage: StageInitialising, Message: "Initialising scan", Progress: 5},
		{Stage: StageComplete, Message: "Scan complete", Progress: 100, Data: &ScanResult{
			URL:          "https://example.com",
			BusinessName: "Example Ltd",
			Opportunities: []AIOpportunity{
				{ID: "opp-1", Title: "Chatbot", Category: OpportunityChatbot, Impact: 4, Complexity: 2},
			},
		}},
	}
	for _, e := range in {
		require.NoError(t, w.Write(e))
	}

	var out []ProgressEvent
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var e ProgressEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		out = append(out, e)
	}

	require.Len(t, out, 2)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[1], out[1])
}

func TestEventWriter_FlushesWhenSupported(t *testing.T) {
	fw := &flushRecorder{}
	w := NewEventWriter(fw)
	require.NoError(t, w.Write(ProgressEvent{Stage: StageInitialising, Progress: 5}))
	assert.Equal(t, 1, fw.flushes)
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() { f.flushes++ }

func TestProgressEvent_OmitsEmptyOptionalFields(t *testing.T) {
	raw, err := json.Marshal(ProgressEvent{Stage: StageDiscovering, Message: "m", Progress: 15})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "detail")
	assert.NotContains(t, string(raw), "data")
}
