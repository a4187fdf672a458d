package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/scout-cli/internal/model"
)

// topRecommendation scores each opportunity as impact*2 - complexity and
// returns the first maximum, or nil for an empty list. No model call:
// ranking is deterministic and local.
func topRecommendation(opportunities []model.AIOpportunity) *model.AIOpportunity {
	var best *model.AIOpportunity
	for i := range opportunities {
		if best == nil || opportunities[i].Score() > best.Score() {
			best = &opportunities[i]
		}
	}
	if best == nil {
		return nil
	}
	top := *best
	return &top
}

// summarize asks the model for a short narrative summary. The reply is
// used verbatim, trimmed of surrounding whitespace; it is never parsed as
// structured data.
func (p *Pipeline) summarize(ctx context.Context, disc *discovery, opportunities []model.AIOpportunity) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTmpl,
		disc.BusinessName,
		disc.Industry,
		opportunityDigest(opportunities),
	)

	reply, err := p.ai.Complete(ctx, prompt)
	if err != nil {
		return "", eris.Wrap(err, "summarize: model call")
	}
	return strings.TrimSpace(reply), nil
}

func opportunityDigest(opportunities []model.AIOpportunity) string {
	if len(opportunities) == 0 {
		return "(none identified)"
	}
	var b strings.Builder
	for _, o := range opportunities {
		fmt.Fprintf(&b, "- %s (%s, impact %d/5, complexity %d/5): %s\n",
			o.Title, o.Category, o.Impact, o.Complexity, o.Description)
	}
	return b.String()
}
