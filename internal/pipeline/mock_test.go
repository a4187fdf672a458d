package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/scout-cli/internal/config"
	"github.com/sells-group/scout-cli/internal/model"
	"github.com/sells-group/scout-cli/internal/scrape"
)

// --- Reasoning Client mock ---

type mockReasoningClient struct {
	mock.Mock
}

func (m *mockReasoningClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// promptContaining matches a Complete prompt by substring, so stage
// replies can be routed without depending on full template text.
func promptContaining(substr string) any {
	return mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, substr)
	})
}

const (
	discoveryMarker = "plan a deeper scan"
	analysisMarker  = "Propose up to"
	summaryMarker   = "2-3 sentence summary"
)

// --- Fetcher stub ---

// stubFetcher serves canned pages by URL. URLs with no entry fail, which
// is how tests simulate unreachable pages and absent sitemaps.
type stubFetcher struct {
	texts map[string]*scrape.PageText
	raws  map[string]string
}

func (s *stubFetcher) FetchText(_ context.Context, url string, _ time.Duration) (*scrape.PageText, error) {
	if pt, ok := s.texts[url]; ok {
		return pt, nil
	}
	return nil, eris.Errorf("stub: no text for %s", url)
}

func (s *stubFetcher) FetchRaw(_ context.Context, url string, _ time.Duration) (string, error) {
	if raw, ok := s.raws[url]; ok {
		return raw, nil
	}
	return "", eris.Errorf("stub: no raw for %s", url)
}

// --- helpers ---

func testConfig() config.ScanConfig {
	return config.ScanConfig{
		MaxPages:           8,
		MaxOpportunities:   3,
		SitemapTimeoutSecs: 1,
		FetchTimeoutSecs:   1,
		ContentBudget:      4000,
	}
}

func drain(events <-chan model.ProgressEvent) []model.ProgressEvent {
	var out []model.ProgressEvent
	for e := range events {
		out = append(out, e)
	}
	return out
}
