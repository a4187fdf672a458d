package scrape

import (
	"net/http"
	"strings"
)

// BlockKind classifies anti-bot responses so callers can log what kind of
// wall the target site put up. Blocked pages are never handed to the model:
// a challenge page reduced to text reads as gibberish and poisons analysis.
type BlockKind string

const (
	blockNone       BlockKind = ""
	BlockCloudflare BlockKind = "cloudflare"
	BlockCaptcha    BlockKind = "captcha"
	BlockJSShell    BlockKind = "js_shell"
)

// detectBlock inspects a response for signs the site refused the scan
// rather than served content.
func detectBlock(status int, header http.Header, body string) (bool, BlockKind) {
	if status == http.StatusForbidden || status == http.StatusServiceUnavailable {
		if header.Get("cf-ray") != "" || header.Get("cf-cache-status") != "" ||
			strings.EqualFold(header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(body)

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		(strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge")) {
		return true, BlockCloudflare
	}

	if strings.Contains(lower, "captcha") {
		return true, BlockCaptcha
	}

	// A tiny body that only bootstraps JavaScript carries nothing worth
	// analysing.
	if len(body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `meta http-equiv="refresh"`) {
			return true, BlockJSShell
		}
	}

	return false, blockNone
}
