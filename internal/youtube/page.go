package youtube

import (
	"encoding/json"
	"regexp"
)

// The watch page assigns both blobs either through a bracket-indexed
// window global or a bare identifier, depending on the render path.
var (
	playerResponseRe = regexp.MustCompile(`(?:window\s*\[\s*["']ytInitialPlayerResponse["']\s*\]|ytInitialPlayerResponse)\s*=\s*(\{.+?\})\s*;`)
	initialDataRe    = regexp.MustCompile(`(?:window\s*\[\s*["']ytInitialData["']\s*\]|ytInitialData)\s*=\s*(\{.+?\})\s*;`)

	videoIDRe  = regexp.MustCompile(`^[\w-]+$`)
	watchURLRe = regexp.MustCompile(`https?://(?:www\.youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`)
)

func extractJSONBlob(re *regexp.Regexp, body []byte) map[string]any {
	m := re.FindSubmatch(body)
	if m == nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(m[1], &out); err != nil {
		return nil
	}
	return out
}

func extractPlayerResponse(body []byte) map[string]any {
	return extractJSONBlob(playerResponseRe, body)
}

func extractInitialData(body []byte) map[string]any {
	return extractJSONBlob(initialDataRe, body)
}

// videoIDFromURL pulls the video ID out of a canonical watch URL or a
// youtu.be short URL. Empty when neither form matches.
func videoIDFromURL(rawURL string) string {
	m := watchURLRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}
