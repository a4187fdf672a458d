package delivery

import (
	"fmt"
	"strings"

	"github.com/sells-group/scout-cli/internal/model"
)

// RenderReport formats a ScanResult as the plain-text report body.
func RenderReport(result *model.ScanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "AI Opportunity Report\n=====================\n\n")
	fmt.Fprintf(&b, "Business: %s\nIndustry: %s\nWebsite: %s\nPages analysed: %d\n\n",
		result.BusinessName, result.Industry, result.URL, result.PagesAnalysed)

	if result.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", result.Summary)
	}

	if len(result.Opportunities) == 0 {
		b.WriteString("No opportunities were identified in this scan.\n")
		return b.String()
	}

	b.WriteString("Opportunities\n-------------\n")
	for i, o := range result.Opportunities {
		fmt.Fprintf(&b, "\n%d. %s [%s]\n   Impact %d/5, complexity %d/5\n   %s\n",
			i+1, o.Title, o.Category, o.Impact, o.Complexity, o.Description)
		if o.ImplementationSketch != "" {
			fmt.Fprintf(&b, "   How: %s\n", o.ImplementationSketch)
		}
	}

	if result.TopRecommendation != nil {
		fmt.Fprintf(&b, "\nTop recommendation: %s\n", result.TopRecommendation.Title)
	}

	return b.String()
}

// renderNotification formats the short internal notification body.
func renderNotification(result *model.ScanResult, recipient string) string {
	return fmt.Sprintf(
		"Scan completed for %s (%s, %s).\nRecipient: %s\nPages analysed: %d, opportunities: %d.\n",
		result.BusinessName, result.Industry, result.URL,
		recipient, result.PagesAnalysed, len(result.Opportunities),
	)
}
