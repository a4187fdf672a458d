package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/llmjson"
	"github.com/sells-group/scout-cli/internal/model"
)

// sitemapPaths are the conventional sitemap locations, probed in order.
// The first that responds wins; this is a fallback cascade, not a merge.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/wp-sitemap.xml"}

// discovery is what the discovery stage hands to the rest of the pipeline.
type discovery struct {
	BusinessName string
	Industry     string
	Pages        []model.DiscoveredPage
}

// discover probes for a sitemap, fetches the homepage, and asks the model
// to identify the business and its key pages. A model reply that cannot be
// parsed degrades to a homepage-only scan; only a failed model call is
// fatal.
func (p *Pipeline) discover(ctx context.Context, target *url.URL, maxPages int) (*discovery, error) {
	log := zap.L().With(zap.String("url", target.String()))

	sitemap := p.fetchSitemap(ctx, target)

	// Homepage fetch is best-effort; the model can still propose pages
	// from the sitemap alone.
	var homepageText, homepageTitle string
	if home, err := p.fetcher.FetchText(ctx, target.String(), p.fetchTimeout); err != nil {
		log.Warn("discover: homepage fetch failed", zap.Error(err))
	} else {
		homepageText = home.Text
		homepageTitle = home.Title
	}

	prompt := fmt.Sprintf(discoveryPromptTmpl, target.String(), sitemap, homepageText, maxPages)
	reply, err := p.ai.Complete(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "discover: model call")
	}

	var out struct {
		BusinessName string `json:"businessName"`
		Industry     string `json:"industry"`
		Pages        []struct {
			URL      string `json:"url"`
			Title    string `json:"title"`
			Category string `json:"category"`
			Priority int    `json:"priority"`
		} `json:"pages"`
	}
	if !llmjson.Unmarshal(reply, &out) || len(out.Pages) == 0 {
		// Degrade gracefully: a failed discovery must not abort the scan.
		log.Warn("discover: unparseable model reply, falling back to homepage only")
		return fallbackDiscovery(target, homepageTitle), nil
	}

	d := &discovery{
		BusinessName: strings.TrimSpace(out.BusinessName),
		Industry:     strings.TrimSpace(out.Industry),
	}
	if d.BusinessName == "" {
		d.BusinessName = "Unknown Business"
	}
	if d.Industry == "" {
		d.Industry = "Unknown"
	}

	for _, pg := range out.Pages {
		abs, ok := resolveURL(target, pg.URL)
		if !ok {
			continue
		}
		d.Pages = append(d.Pages, model.DiscoveredPage{
			URL:      abs,
			Title:    strings.TrimSpace(pg.Title),
			Category: model.NormalizePageCategory(pg.Category),
			Priority: clamp(pg.Priority, 1, 10),
		})
		if len(d.Pages) >= maxPages {
			break
		}
	}
	if len(d.Pages) == 0 {
		return fallbackDiscovery(target, homepageTitle), nil
	}
	return d, nil
}

// fetchSitemap tries each conventional sitemap location with a short
// timeout and returns the first body that loads, truncated for prompting.
func (p *Pipeline) fetchSitemap(ctx context.Context, target *url.URL) string {
	base := target.Scheme + "://" + target.Host
	for _, path := range sitemapPaths {
		body, err := p.fetcher.FetchRaw(ctx, base+path, p.sitemapTimeout)
		if err != nil {
			zap.L().Debug("discover: sitemap probe missed",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		if budget := p.contentBudget(); len(body) > budget {
			body = body[:budget]
		}
		return body
	}
	return ""
}

func (p *Pipeline) contentBudget() int {
	if p.cfg.ContentBudget > 0 {
		return p.cfg.ContentBudget
	}
	return 4000
}

// fallbackDiscovery builds the single synthetic homepage record used when
// the model reply yields no usable page list.
func fallbackDiscovery(target *url.URL, homepageTitle string) *discovery {
	title := homepageTitle
	if title == "" {
		title = "Homepage"
	}
	return &discovery{
		BusinessName: "Unknown Business",
		Industry:     "Unknown",
		Pages: []model.DiscoveredPage{{
			URL:      target.String(),
			Title:    title,
			Category: model.PageCategoryHomepage,
			Priority: 10,
		}},
	}
}

// resolveURL makes raw absolute against base, keeping only http(s) results.
func resolveURL(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
