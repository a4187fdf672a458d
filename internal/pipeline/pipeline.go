// Package pipeline runs the staged website scan: page discovery, content
// extraction, opportunity analysis, and summary synthesis, emitting an
// ordered stream of progress events as it goes.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/config"
	"github.com/sells-group/scout-cli/internal/model"
	"github.com/sells-group/scout-cli/internal/scrape"
	"github.com/sells-group/scout-cli/pkg/anthropic"
)

// DefaultMaxPages is the page-count ceiling when the caller does not
// supply one.
const DefaultMaxPages = 8

// Progress ladder. One value per observable step; progress never
// decreases within a run.
const (
	progressInit        = 5
	progressDiscovering = 15
	progressDiscovered  = 30
	progressFetching    = 40
	progressFetched     = 55
	progressAnalysing   = 65
	progressAnalysed    = 80
	progressGenerating  = 90
	progressComplete    = 100
)

// Pipeline orchestrates one scan per call. Safe for concurrent use: runs
// share no mutable state.
type Pipeline struct {
	cfg     config.ScanConfig
	ai      anthropic.Client
	fetcher scrape.Fetcher

	sitemapTimeout time.Duration
	fetchTimeout   time.Duration
}

// New creates a Pipeline with the given reasoning client and fetcher.
func New(cfg config.ScanConfig, ai anthropic.Client, fetcher scrape.Fetcher) *Pipeline {
	if cfg.MaxOpportunities <= 0 {
		cfg.MaxOpportunities = 3
	}
	p := &Pipeline{
		cfg:            cfg,
		ai:             ai,
		fetcher:        fetcher,
		sitemapTimeout: 5 * time.Second,
		fetchTimeout:   10 * time.Second,
	}
	if cfg.SitemapTimeoutSecs > 0 {
		p.sitemapTimeout = time.Duration(cfg.SitemapTimeoutSecs) * time.Second
	}
	if cfg.FetchTimeoutSecs > 0 {
		p.fetchTimeout = time.Duration(cfg.FetchTimeoutSecs) * time.Second
	}
	return p
}

// Scan starts a scan of targetURL and returns the event stream. The
// channel is unbuffered: the scan does not advance past an event until the
// consumer has taken it, so a slow consumer paces the producer. The
// channel closes after exactly one terminal event (complete or error).
func (p *Pipeline) Scan(ctx context.Context, targetURL string, maxPages int) <-chan model.ProgressEvent {
	events := make(chan model.ProgressEvent)
	go func() {
		defer close(events)
		p.run(ctx, targetURL, maxPages, events)
	}()
	return events
}

func (p *Pipeline) run(ctx context.Context, targetURL string, maxPages int, events chan<- model.ProgressEvent) {
	log := zap.L().With(zap.String("url", targetURL))

	emit := func(e model.ProgressEvent) bool {
		select {
		case events <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		log.Error("scan: failed", zap.Error(err))
		emit(model.ProgressEvent{
			Stage:    model.StageError,
			Message:  "Scan failed",
			Detail:   err.Error(),
			Progress: 0,
		})
	}

	if maxPages <= 0 {
		maxPages = p.cfg.MaxPages
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	target, err := validateTarget(targetURL)
	if err != nil {
		fail(err)
		return
	}

	start := time.Now()
	log.Info("scan: starting", zap.Int("max_pages", maxPages))

	if !emit(model.ProgressEvent{
		Stage:    model.StageInitialising,
		Message:  "Initialising scan",
		Detail:   target.String(),
		Progress: progressInit,
	}) {
		return
	}

	// Stage 1: Discovery.
	emit(model.ProgressEvent{
		Stage:    model.StageDiscovering,
		Message:  "Discovering key pages",
		Progress: progressDiscovering,
	})

	disc, err := p.discover(ctx, target, maxPages)
	if err != nil {
		fail(err)
		return
	}
	log.Info("scan: discovery complete",
		zap.String("business", disc.BusinessName),
		zap.Int("pages", len(disc.Pages)),
	)

	emit(model.ProgressEvent{
		Stage:    model.StageDiscovering,
		Message:  fmt.Sprintf("Identified %s", disc.BusinessName),
		Detail:   fmt.Sprintf("%d pages to analyse", len(disc.Pages)),
		Progress: progressDiscovered,
	})

	// Stage 2: Extraction. Per-page failures are absorbed, never fatal.
	emit(model.ProgressEvent{
		Stage:    model.StageFetching,
		Message:  "Fetching page content",
		Progress: progressFetching,
	})

	contents := p.extractContent(ctx, disc.Pages)
	log.Info("scan: extraction complete",
		zap.Int("fetched", len(contents)),
		zap.Int("requested", len(disc.Pages)),
	)

	emit(model.ProgressEvent{
		Stage:    model.StageFetching,
		Message:  fmt.Sprintf("Analysed %d of %d pages", len(contents), len(disc.Pages)),
		Progress: progressFetched,
	})

	// Stage 3: Analysis.
	emit(model.ProgressEvent{
		Stage:    model.StageAnalysing,
		Message:  "Identifying AI opportunities",
		Progress: progressAnalysing,
	})

	opportunities, err := p.analyze(ctx, disc, contents)
	if err != nil {
		fail(err)
		return
	}

	emit(model.ProgressEvent{
		Stage:    model.StageAnalysing,
		Message:  fmt.Sprintf("Found %d opportunities", len(opportunities)),
		Progress: progressAnalysed,
	})

	// Stage 4: Synthesis.
	emit(model.ProgressEvent{
		Stage:    model.StageGenerating,
		Message:  "Generating summary",
		Progress: progressGenerating,
	})

	summary, err := p.summarize(ctx, disc, opportunities)
	if err != nil {
		fail(err)
		return
	}

	result := &model.ScanResult{
		URL:               target.String(),
		BusinessName:      disc.BusinessName,
		Industry:          disc.Industry,
		PagesAnalysed:     len(contents),
		Opportunities:     opportunities,
		TopRecommendation: topRecommendation(opportunities),
		Summary:           summary,
	}

	log.Info("scan: complete",
		zap.Int("pages_analysed", result.PagesAnalysed),
		zap.Int("opportunities", len(result.Opportunities)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	emit(model.ProgressEvent{
		Stage:    model.StageComplete,
		Message:  "Scan complete",
		Progress: progressComplete,
		Data:     result,
	})
}

// validateTarget rejects anything that is not an absolute http(s) URL.
// This is a fast local check before any I/O happens.
func validateTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, eris.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, eris.Errorf("invalid URL %q: missing host", raw)
	}
	return u, nil
}
