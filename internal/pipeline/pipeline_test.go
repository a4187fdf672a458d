package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/scout-cli/internal/model"
	"github.com/sells-group/scout-cli/internal/scrape"
)

func TestScan_FullRun(t *testing.T) {
	// Reference scenario: sitemap absent, minimal homepage, one discovered
	// page, one opportunity (impact 4, complexity 2), one-line summary.
	fetcher := &stubFetcher{
		texts: map[string]*scrape.PageText{
			"https://example.com": {Title: "Example", Text: "A small business site", ContentType: "text/html"},
		},
	}

	ai := &mockReasoningClient{}
	ai.On("Complete", mock.Anything, promptContaining(discoveryMarker)).Return(`{
		"businessName": "Example Ltd",
		"industry": "Retail",
		"pages": [{"url": "https://example.com", "title": "Home", "category": "homepage", "priority": 10}]
	}`, nil)
	ai.On("Complete", mock.Anything, promptContaining(analysisMarker)).Return(`{
		"opportunities": [{"id": "opp-1", "title": "Order chatbot", "description": "Answer queries",
			"category": "chatbot", "complexity": 2, "impact": 4}]
	}`, nil)
	ai.On("Complete", mock.Anything, promptContaining(summaryMarker)).
		Return("Example Ltd could automate customer queries.", nil)

	p := New(testConfig(), ai, fetcher)
	events := drain(p.Scan(context.Background(), "https://example.com", 8))

	require.NotEmpty(t, events)

	// Starts at initialising/5, ends at complete/100.
	assert.Equal(t, model.StageInitialising, events[0].Stage)
	assert.Equal(t, 5, events[0].Progress)

	terminal := events[len(events)-1]
	assert.Equal(t, model.StageComplete, terminal.Stage)
	assert.Equal(t, 100, terminal.Progress)

	// Exactly one terminal event.
	for _, e := range events[:len(events)-1] {
		assert.False(t, e.Terminal(), "non-final event %q must not be terminal", e.Stage)
	}

	// Progress is non-decreasing.
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Progress, events[i-1].Progress)
	}

	result := terminal.Data
	require.NotNil(t, result)
	assert.Equal(t, "https://example.com", result.URL)
	assert.Equal(t, "Example Ltd", result.BusinessName)
	assert.Equal(t, "Retail", result.Industry)
	assert.Equal(t, 1, result.PagesAnalysed)
	require.Len(t, result.Opportunities, 1)
	require.NotNil(t, result.TopRecommendation)
	assert.Equal(t, result.Opportunities[0], *result.TopRecommendation)
	assert.Equal(t, "Example Ltd could automate customer queries.", result.Summary)

	ai.AssertExpectations(t)
}

func TestScan_InvalidURL(t *testing.T) {
	p := New(testConfig(), &mockReasoningClient{}, &stubFetcher{})

	for _, target := range []string{"not-a-url", "ftp://example.com", "://nope", ""} {
		events := drain(p.Scan(context.Background(), target, 8))
		require.Len(t, events, 1, "target %q", target)
		assert.Equal(t, model.StageError, events[0].Stage)
		assert.Equal(t, 0, events[0].Progress)
		assert.Contains(t, events[0].Detail, "invalid URL")
		assert.Nil(t, events[0].Data)
	}
}

func TestScan_AllPageFetchesFailStillCompletes(t *testing.T) {
	// Homepage and pages all unreachable; discovery parse also fails, so
	// the scan degrades to a homepage-only attempt with zero content.
	ai := &mockReasoningClient{}
	ai.On("Complete", mock.Anything, promptContaining(discoveryMarker)).Return("garbage", nil)
	ai.On("Complete", mock.Anything, promptContaining(analysisMarker)).Return("also garbage", nil)
	ai.On("Complete", mock.Anything, promptContaining(summaryMarker)).Return("Nothing to report.", nil)

	p := New(testConfig(), ai, &stubFetcher{})
	events := drain(p.Scan(context.Background(), "https://unreachable.example", 8))

	terminal := events[len(events)-1]
	require.Equal(t, model.StageComplete, terminal.Stage)
	require.NotNil(t, terminal.Data)
	assert.Equal(t, 0, terminal.Data.PagesAnalysed)
	assert.Equal(t, "Unknown Business", terminal.Data.BusinessName)
	assert.Empty(t, terminal.Data.Opportunities)
	assert.Nil(t, terminal.Data.TopRecommendation)
}

func TestScan_ModelFailureIsTerminalError(t *testing.T) {
	ai := &mockReasoningClient{}
	ai.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	p := New(testConfig(), ai, &stubFetcher{})
	events := drain(p.Scan(context.Background(), "https://example.com", 8))

	require.NotEmpty(t, events)
	terminal := events[len(events)-1]
	assert.Equal(t, model.StageError, terminal.Stage)
	assert.Nil(t, terminal.Data)

	// No complete event anywhere in the run.
	for _, e := range events {
		assert.NotEqual(t, model.StageComplete, e.Stage)
	}
}

func TestScan_PagesAnalysedNeverExceedsMaxPages(t *testing.T) {
	fetcher := &stubFetcher{texts: map[string]*scrape.PageText{
		"https://example.com":   {Title: "Home", Text: "x"},
		"https://example.com/a": {Title: "A", Text: "x"},
		"https://example.com/b": {Title: "B", Text: "x"},
	}}
	ai := &mockReasoningClient{}
	ai.On("Complete", mock.Anything, promptContaining(discoveryMarker)).Return(`{
		"businessName": "Example", "industry": "Retail",
		"pages": [
			{"url": "https://example.com", "title": "Home", "category": "homepage", "priority": 10},
			{"url": "/a", "title": "A", "category": "other", "priority": 5},
			{"url": "/b", "title": "B", "category": "other", "priority": 5}
		]
	}`, nil)
	ai.On("Complete", mock.Anything, promptContaining(analysisMarker)).Return(`{"opportunities": []}`, nil)
	ai.On("Complete", mock.Anything, promptContaining(summaryMarker)).Return("Summary.", nil)

	p := New(testConfig(), ai, fetcher)
	events := drain(p.Scan(context.Background(), "https://example.com", 2))

	terminal := events[len(events)-1]
	require.Equal(t, model.StageComplete, terminal.Stage)
	assert.LessOrEqual(t, terminal.Data.PagesAnalysed, 2)
}

func TestScan_DefaultMaxPages(t *testing.T) {
	p := New(testConfig(), &mockReasoningClient{}, &stubFetcher{})
	// Non-positive maxPages falls back to the configured ceiling; the
	// invalid URL short-circuits before any stage runs.
	events := drain(p.Scan(context.Background(), "nonsense", 0))
	require.Len(t, events, 1)
	assert.Equal(t, model.StageError, events[0].Stage)
}

func TestValidateTarget(t *testing.T) {
	u, err := validateTarget("https://example.com/path")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)

	_, err = validateTarget("http://example.com")
	assert.NoError(t, err)

	for _, bad := range []string{"not-a-url", "ftp://x.com", "https://", "file:///etc/passwd"} {
		_, err := validateTarget(bad)
		assert.Error(t, err, bad)
	}
}
