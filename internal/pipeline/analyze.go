package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/scout-cli/internal/llmjson"
	"github.com/sells-group/scout-cli/internal/model"
)

// opportunityWire is the JSON shape requested from the model.
type opportunityWire struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	TargetPages          []string `json:"targetPages"`
	PainPointsSolved     []string `json:"painPointsSolved"`
	Complexity           int      `json:"complexity"`
	Impact               int      `json:"impact"`
	ImplementationSketch string   `json:"implementationSketch"`
	Icon                 string   `json:"icon"`
}

// analyze asks the model for a bounded set of opportunity records given
// the aggregated page content. An unparseable reply degrades to an empty
// list; a scan with zero opportunities is a valid outcome.
func (p *Pipeline) analyze(ctx context.Context, disc *discovery, contents []model.PageContent) ([]model.AIOpportunity, error) {
	prompt := fmt.Sprintf(analysisPromptTmpl,
		disc.BusinessName,
		disc.Industry,
		contentDigest(contents),
		p.cfg.MaxOpportunities,
	)

	reply, err := p.ai.Complete(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: model call")
	}

	var out struct {
		Opportunities []opportunityWire `json:"opportunities"`
	}
	if !llmjson.Unmarshal(reply, &out) {
		zap.L().Warn("analyze: unparseable model reply, continuing with no opportunities")
		return []model.AIOpportunity{}, nil
	}

	opportunities := make([]model.AIOpportunity, 0, len(out.Opportunities))
	for _, w := range out.Opportunities {
		if strings.TrimSpace(w.Title) == "" {
			continue
		}
		id := strings.TrimSpace(w.ID)
		if id == "" {
			id = uuid.NewString()
		}
		opportunities = append(opportunities, model.AIOpportunity{
			ID:                   id,
			Title:                strings.TrimSpace(w.Title),
			Description:          strings.TrimSpace(w.Description),
			Category:             model.NormalizeOpportunityCategory(w.Category),
			TargetPages:          w.TargetPages,
			PainPointsSolved:     w.PainPointsSolved,
			Complexity:           clamp(w.Complexity, 1, 5),
			Impact:               clamp(w.Impact, 1, 5),
			ImplementationSketch: strings.TrimSpace(w.ImplementationSketch),
			Icon:                 strings.TrimSpace(w.Icon),
		})
		if len(opportunities) >= p.cfg.MaxOpportunities {
			break
		}
	}
	return opportunities, nil
}

// contentDigest concatenates each page's title, URL and description into
// the prompt body.
func contentDigest(contents []model.PageContent) string {
	if len(contents) == 0 {
		return "(no page content could be fetched)"
	}
	var b strings.Builder
	for _, c := range contents {
		fmt.Fprintf(&b, "## %s\nURL: %s\n%s\n\n", c.Title, c.URL, strings.TrimSpace(c.Description))
	}
	return b.String()
}
