package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"
)

const browseURL = "https://www.youtube.com/youtubei/v1/browse"

var channelHandleRe = regexp.MustCompile(`^@[\w-]+$`)

// GetChannelVideos takes a channel URL, @handle or bare channel ID and
// returns the video IDs of the channel's configured tabs, in upstream
// page order. Videos listed on more than one tab are not deduplicated.
func (c *Client) GetChannelVideos(ctx context.Context, in string) ([]string, error) {
	var baseURL string
	switch {
	case channelHandleRe.MatchString(in):
		baseURL = "https://www.youtube.com/" + in
	case videoIDRe.MatchString(in):
		baseURL = "https://www.youtube.com/channel/" + in
	default:
		baseURL = in
	}

	videos := []string{}

	for _, tab := range c.tabs() {
		rawURL := baseURL + "/" + tab
		deadline := c.deadline()

		body, err := c.fetch(ctx, http.MethodGet, rawURL, watchHeader, nil, deadline, nil)
		if err != nil {
			return nil, err
		}

		data := extractInitialData(body)
		if data == nil {
			c.logf("errors on page for %s", rawURL)
			continue
		}

		ids, err := c.walkTabs(ctx, data, rawURL, deadline)
		if err != nil {
			return nil, err
		}
		videos = append(videos, ids...)
	}

	return videos, nil
}

// walkTabs collects video IDs from every tab renderer of one listing
// page, following continuations. Layout variance inside a single tab
// (missing grid, missing token) keeps that tab's partial results and
// moves on; timeout and retry exhaustion abort the whole call.
func (c *Client) walkTabs(ctx context.Context, data map[string]any, rawURL string, deadline time.Time) ([]string, error) {
	videos := []string{}

	for _, tab := range lookupSlice(data, "contents", "twoColumnBrowseResultsRenderer", "tabs") {
		items := lookupSlice(tab, "tabRenderer", "content", "richGridRenderer", "contents")
		if items == nil {
			continue
		}

		var token string
		videos, token = appendItems(videos, items)

		for token != "" {
			page, err := c.browse(ctx, token, deadline)
			if err != nil {
				return nil, err
			}

			items = lookupSlice(page, "onResponseReceivedActions", 0,
				"appendContinuationItemsAction", "continuationItems")
			if items == nil {
				c.logf("missing continuation items for %s", rawURL)
				break
			}
			videos, token = appendItems(videos, items)
		}
	}

	return videos, nil
}

// appendItems walks one page of grid items in order, appending video
// IDs and returning the continuation token when the page carries one.
func appendItems(videos []string, items []any) ([]string, string) {
	var token string
	for _, item := range items {
		if lookup(item, "continuationItemRenderer") != nil {
			token = lookupString(item, "continuationItemRenderer",
				"continuationEndpoint", "continuationCommand", "token")
			continue
		}
		id := lookupString(item, "richItemRenderer", "content", "videoRenderer", "videoId")
		if id == "" {
			id = lookupString(item, "richItemRenderer", "content", "reelItemRenderer", "videoId")
		}
		if id != "" {
			videos = append(videos, id)
		}
	}
	return videos, token
}

// browse requests the next listing page from the innertube browse
// endpoint, honoring the same retry budget and deadline as page loads.
func (c *Client) browse(ctx context.Context, token string, deadline time.Time) (map[string]any, error) {
	reqBody, err := json.Marshal(map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    "WEB",
				"clientVersion": c.clientVersion(),
			},
		},
		"continuation": token,
	})
	if err != nil {
		return nil, err
	}

	header := http.Header{
		"Content-Type":             []string{"application/json"},
		"X-Youtube-Client-Name":    []string{"1"},
		"X-Youtube-Client-Version": []string{c.clientVersion()},
	}
	browse := browseURL + "?key=" + c.browseAPIKey() + "&prettyPrint=false"

	var page map[string]any
	_, err = c.fetch(ctx, http.MethodPost, browse, header, reqBody, deadline, func(body []byte) bool {
		page = nil
		return json.Unmarshal(body, &page) == nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
