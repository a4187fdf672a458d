package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRe = regexp.MustCompile(`[ \t]+`)
	nlRe    = regexp.MustCompile(`\n{3,}`)
)

// ReduceHTML parses html and returns the page title and its visible text.
// Script, style, nav, footer and noscript subtrees are removed before text
// extraction; whitespace is collapsed. Falls back to a regex strip when the
// document does not parse.
func ReduceHTML(html string) (title, text string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", collapse(stripTags(html))
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, nav, footer, noscript, iframe").Remove()

	var b strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
	})
	text = b.String()
	if text == "" {
		// Fragment without a <body>; take whatever text remains.
		text = doc.Text()
	}

	return title, collapse(text)
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

func stripTags(html string) string {
	return tagRe.ReplaceAllString(html, " ")
}

func collapse(s string) string {
	s = spaceRe.ReplaceAllString(s, " ")
	// Trim per-line so indentation doesn't survive into the prompt.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = nlRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
