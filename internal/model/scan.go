package model

// PageCategory classifies a discovered page by its role on the site.
type PageCategory string

const (
	PageCategoryHomepage      PageCategory = "homepage"
	PageCategoryProduct       PageCategory = "product"
	PageCategoryService       PageCategory = "service"
	PageCategoryBlog          PageCategory = "blog"
	PageCategoryDocumentation PageCategory = "documentation"
	PageCategoryAbout         PageCategory = "about"
	PageCategoryContact       PageCategory = "contact"
	PageCategoryOther         PageCategory = "other"
)

// AllPageCategories returns every defined page category.
func AllPageCategories() []PageCategory {
	return []PageCategory{
		PageCategoryHomepage,
		PageCategoryProduct,
		PageCategoryService,
		PageCategoryBlog,
		PageCategoryDocumentation,
		PageCategoryAbout,
		PageCategoryContact,
		PageCategoryOther,
	}
}

// NormalizePageCategory maps arbitrary model output onto a defined category,
// falling back to PageCategoryOther.
func NormalizePageCategory(s string) PageCategory {
	for _, c := range AllPageCategories() {
		if string(c) == s {
			return c
		}
	}
	return PageCategoryOther
}

// DiscoveredPage is a candidate page identified during discovery.
// Immutable once created.
type DiscoveredPage struct {
	URL      string       `json:"url"`
	Title    string       `json:"title"`
	Category PageCategory `json:"category"`
	Priority int          `json:"priority"` // 1-10, higher first
}

// PageContent is the normalized content record for one successfully
// fetched page. Pages that fail to fetch produce no record.
type PageContent struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"` // clipped at 500 chars
	ContentType string `json:"contentType"`
}

// OpportunityCategory classifies an AI adoption opportunity.
type OpportunityCategory string

const (
	OpportunityChatbot         OpportunityCategory = "chatbot"
	OpportunityAutomation      OpportunityCategory = "automation"
	OpportunityPersonalisation OpportunityCategory = "personalisation"
	OpportunitySearch          OpportunityCategory = "search"
	OpportunityAnalytics       OpportunityCategory = "analytics"
	OpportunityContent         OpportunityCategory = "content"
	OpportunityOther           OpportunityCategory = "other"
)

// AllOpportunityCategories returns every defined opportunity category.
func AllOpportunityCategories() []OpportunityCategory {
	return []OpportunityCategory{
		OpportunityChatbot,
		OpportunityAutomation,
		OpportunityPersonalisation,
		OpportunitySearch,
		OpportunityAnalytics,
		OpportunityContent,
		OpportunityOther,
	}
}

// NormalizeOpportunityCategory maps arbitrary model output onto a defined
// category, falling back to OpportunityOther.
func NormalizeOpportunityCategory(s string) OpportunityCategory {
	for _, c := range AllOpportunityCategories() {
		if string(c) == s {
			return c
		}
	}
	return OpportunityOther
}

// AIOpportunity is one proposed AI adoption opportunity for the scanned
// business. Immutable once produced by analysis.
type AIOpportunity struct {
	ID                   string              `json:"id"`
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	Category             OpportunityCategory `json:"category"`
	TargetPages          []string            `json:"targetPages,omitempty"`
	PainPointsSolved     []string            `json:"painPointsSolved,omitempty"`
	Complexity           int                 `json:"complexity"` // 1-5
	Impact               int                 `json:"impact"`     // 1-5
	ImplementationSketch string              `json:"implementationSketch,omitempty"`
	Icon                 string              `json:"icon,omitempty"`
}

// Score ranks an opportunity for the top recommendation: high impact,
// low complexity wins.
func (o AIOpportunity) Score() int {
	return o.Impact*2 - o.Complexity
}

// ScanResult is the terminal aggregate for one scan. Constructed once at
// the final stage and never mutated afterward.
type ScanResult struct {
	URL               string          `json:"url"`
	BusinessName      string          `json:"businessName"`
	Industry          string          `json:"industry"`
	PagesAnalysed     int             `json:"pagesAnalysed"`
	Opportunities     []AIOpportunity `json:"opportunities"`
	TopRecommendation *AIOpportunity  `json:"topRecommendation,omitempty"`
	Summary           string          `json:"summary"`
}
