package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/model"
)

// maxDescriptionLen caps the per-page description carried into analysis.
const maxDescriptionLen = 500

// extractContent fetches each discovered page and normalizes it into a
// content record. A page that fails to load is dropped silently; the
// output can be smaller than the input, down to empty, and that is never
// an error.
func (p *Pipeline) extractContent(ctx context.Context, pages []model.DiscoveredPage) []model.PageContent {
	contents := make([]model.PageContent, 0, len(pages))

	for _, page := range pages {
		pt, err := p.fetcher.FetchText(ctx, page.URL, p.fetchTimeout)
		if err != nil {
			zap.L().Debug("extract: dropping page",
				zap.String("url", page.URL),
				zap.Error(err),
			)
			continue
		}

		title := pt.Title
		if title == "" {
			title = page.Title
		}

		contents = append(contents, model.PageContent{
			URL:         page.URL,
			Title:       title,
			Description: clipRunes(pt.Text, maxDescriptionLen),
			ContentType: pt.ContentType,
		})
	}

	return contents
}

// clipRunes truncates s to at most n runes.
func clipRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
