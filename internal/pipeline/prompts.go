package pipeline

// Prompt templates. Every prompt requests a specific JSON shape and
// instructs the model to use British-English spelling; replies still go
// through llmjson because the model may wrap the JSON in commentary.

const discoveryPromptTmpl = `You are analysing the website of a business to plan a deeper scan.

Website: %s

Sitemap (may be empty):
%s

Homepage text (may be empty):
%s

Identify the business and select up to %d of its most informative pages.
Use British English spelling throughout.

Respond with JSON in exactly this shape:
{
  "businessName": "...",
  "industry": "...",
  "pages": [
    {"url": "...", "title": "...", "category": "homepage|product|service|blog|documentation|about|contact|other", "priority": 1-10}
  ]
}

Order pages by priority, highest first. Use absolute URLs on the same site.`

const analysisPromptTmpl = `You advise businesses on practical AI adoption.

Business: %s
Industry: %s

Page content:
%s

Propose up to %d AI adoption opportunities tailored to this business.
Use British English spelling throughout.

Respond with JSON in exactly this shape:
{
  "opportunities": [
    {
      "id": "...",
      "title": "...",
      "description": "...",
      "category": "chatbot|automation|personalisation|search|analytics|content|other",
      "targetPages": ["..."],
      "painPointsSolved": ["..."],
      "complexity": 1-5,
      "impact": 1-5,
      "implementationSketch": "...",
      "icon": "..."
    }
  ]
}

complexity 1 means trivial to adopt, 5 means a major project. impact 1 means
marginal benefit, 5 means transformative.`

const summaryPromptTmpl = `You advise businesses on practical AI adoption.

Business: %s
Industry: %s

Proposed opportunities:
%s

Write a 2-3 sentence summary of how this business could benefit from AI,
referencing the opportunities above. Use British English spelling. Respond
with the summary text only, no JSON.`
