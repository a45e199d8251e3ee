package youtube

import (
	"context"
	"net/http"
)

// Thumbnail format selectors. Maxres is only rendered for some videos;
// hq exists for everything.
const (
	ThumbnailMaxRes = "maxres"
	ThumbnailHQ     = "hq"
)

// GetThumbnail takes a video URL or ID and a format selector and
// returns the thumbnail image bytes. An unknown format or an input that
// cannot be reduced to a video ID fails before any network I/O.
func (c *Client) GetThumbnail(ctx context.Context, in, format string) ([]byte, error) {
	id := in
	if !videoIDRe.MatchString(in) {
		id = videoIDFromURL(in)
		if id == "" {
			return nil, &InvalidInputError{Input: in}
		}
	}

	var rawURL string
	switch format {
	case ThumbnailMaxRes:
		rawURL = "https://i.ytimg.com/vi/" + id + "/maxresdefault.jpg"
	case ThumbnailHQ:
		rawURL = "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
	default:
		return nil, &InvalidInputError{Input: format}
	}

	return c.fetch(ctx, http.MethodGet, rawURL, nil, nil, c.deadline(), nil)
}
