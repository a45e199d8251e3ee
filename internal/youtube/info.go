package youtube

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Playability statuses with special handling. Upstream reports other
// strings (UNPLAYABLE, LIVE_STREAM_OFFLINE, ...) which pass through
// unchanged.
const (
	StatusOK            = "OK"
	StatusError         = "ERROR"
	StatusPrivate       = "PRIVATE"
	StatusAgeRestricted = "AGE_RESTRICTED"
	statusLoginRequired = "LOGIN_REQUIRED"
)

// Chapter is one entry of a video's chaptered player bar.
type Chapter struct {
	Title       string `json:"title"`
	StartTimeMS int64  `json:"start_time_ms"`
}

// VideoInfo is the normalized metadata of one video at capture time.
// When Status is ERROR or PRIVATE only Status, Timestamp and ID are
// populated; the page exposes no details tree for those states.
type VideoInfo struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	ID        string `json:"id"`

	Author      string `json:"author,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Length      int64  `json:"length,omitempty"`

	PublishDate *string `json:"publish_date,omitempty"`
	UploadDate  *string `json:"upload_date,omitempty"`

	LiveContent   *bool    `json:"live_content,omitempty"`
	ChatAvailable *bool    `json:"chat_available,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	Views         int64    `json:"views,omitempty"`
	FamilySafe    *bool    `json:"family_safe,omitempty"`

	Keywords []string `json:"keywords,omitempty"`

	// Chapters is nil (and omitted from JSON) when the player bar
	// carries no chapter data at all.
	Chapters []Chapter `json:"chapters,omitempty"`

	Likes    *int64 `json:"likes,omitempty"`
	Dislikes *int64 `json:"dislikes,omitempty"`

	Unlisted *bool   `json:"unlisted,omitempty"`
	Category *string `json:"category,omitempty"`

	// Only meaningful for live broadcasts.
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// Status classifies the page's playability. Age-restricted and private
// videos both report LOGIN_REQUIRED upstream; a reason field marks the
// former, a messages field the latter.
func Status(data *PageData) string {
	ps := lookupMap(data.PlayerResponse, "playabilityStatus")
	status := lookupString(ps, "status")

	if status == statusLoginRequired {
		if _, ok := ps["reason"]; ok {
			return StatusAgeRestricted
		}
		if _, ok := ps["messages"]; ok {
			return StatusPrivate
		}
	}
	return status
}

// ExtractInfo maps a page data bundle to a VideoInfo record.
func ExtractInfo(data *PageData) (*VideoInfo, error) {
	info := &VideoInfo{
		Status:    Status(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if info.Status == StatusError || info.Status == StatusPrivate {
		info.ID = videoIDFromURL(data.URL)
		return info, nil
	}

	details := lookupMap(data.PlayerResponse, "videoDetails")
	if details == nil {
		return nil, &MalformedDataError{URL: data.URL, Field: "videoDetails"}
	}

	reqStr := func(key string) (string, error) {
		s, ok := details[key].(string)
		if !ok {
			return "", &MalformedDataError{URL: data.URL, Field: "videoDetails." + key}
		}
		return s, nil
	}

	var err error
	if info.ID, err = reqStr("videoId"); err != nil {
		return nil, err
	}
	if info.Author, err = reqStr("author"); err != nil {
		return nil, err
	}
	if info.ChannelID, err = reqStr("channelId"); err != nil {
		return nil, err
	}
	if info.Title, err = reqStr("title"); err != nil {
		return nil, err
	}
	if info.Description, err = reqStr("shortDescription"); err != nil {
		return nil, err
	}

	length, err := reqStr("lengthSeconds")
	if err != nil {
		return nil, err
	}
	if info.Length, err = strconv.ParseInt(length, 10, 64); err != nil {
		return nil, &MalformedDataError{URL: data.URL, Field: "videoDetails.lengthSeconds"}
	}
	views, err := reqStr("viewCount")
	if err != nil {
		return nil, err
	}
	if info.Views, err = strconv.ParseInt(views, 10, 64); err != nil {
		return nil, &MalformedDataError{URL: data.URL, Field: "videoDetails.viewCount"}
	}

	live, ok := details["isLiveContent"].(bool)
	if !ok {
		return nil, &MalformedDataError{URL: data.URL, Field: "videoDetails.isLiveContent"}
	}
	info.LiveContent = &live

	// Two microformat variants exist in the wild; first non-empty wins.
	micro := lookupMap(data.PlayerResponse, "microformat", "playerMicroformatRenderer")
	if micro == nil {
		micro = lookupMap(data.PlayerResponse, "microformat", "microformatDataRenderer")
	}
	info.PublishDate = lookupStringPtr(micro, "publishDate")
	info.UploadDate = lookupStringPtr(micro, "uploadDate")
	info.FamilySafe = lookupBoolPtr(micro, "isFamilySafe")
	info.Unlisted = lookupBoolPtr(micro, "isUnlisted")
	info.Category = lookupStringPtr(micro, "category")
	info.StartTime = lookupStringPtr(micro, "liveBroadcastDetails", "startTimestamp")
	info.EndTime = lookupStringPtr(micro, "liveBroadcastDetails", "endTimestamp")

	chat := chatAvailable(data)
	info.ChatAvailable = &chat

	if rating, ok := details["averageRating"].(float64); ok {
		info.AverageRating = &rating
	}

	info.Keywords = []string{}
	for _, kw := range lookupSlice(details, "keywords") {
		if s, ok := kw.(string); ok {
			info.Keywords = append(info.Keywords, s)
		}
	}

	info.Chapters = extractChapters(data.InitialData)
	info.Likes, info.Dislikes = extractRatings(data.InitialData)

	return info, nil
}

func extractChapters(initialData map[string]any) []Chapter {
	raw := lookupSlice(initialData, "playerOverlays", "playerOverlayRenderer",
		"decoratedPlayerBarRenderer", "decoratedPlayerBarRenderer",
		"playerBar", "chapteredPlayerBarRenderer", "chapters")
	if raw == nil {
		return nil
	}
	chapters := make([]Chapter, 0, len(raw))
	for _, c := range raw {
		ch := Chapter{Title: lookupString(c, "chapterRenderer", "title", "simpleText")}
		if ms, ok := lookup(c, "chapterRenderer", "timeRangeStartMillis").(float64); ok {
			ch.StartTimeMS = int64(ms)
		}
		chapters = append(chapters, ch)
	}
	return chapters
}

// The like/dislike counts are not exposed structurally; they only
// appear in rendered accessibility labels, so we serialize the watch
// results subtree and match the label text. Kept behind this narrow
// function so it can be swapped if upstream ever exposes real counts.
var (
	likeLabelRe    = regexp.MustCompile(`["']label["']\s*:\s*["']([\d,.]+|No)\s+likes["']`)
	dislikeLabelRe = regexp.MustCompile(`["']label["']\s*:\s*["']([\d,.]+|No)\s+dislikes["']`)
)

func extractRatings(initialData map[string]any) (likes, dislikes *int64) {
	contents := lookup(initialData, "contents", "twoColumnWatchNextResults",
		"results", "results", "contents")
	if contents == nil {
		return nil, nil
	}
	serialized, err := json.Marshal(contents)
	if err != nil {
		return nil, nil
	}
	likes = matchCount(likeLabelRe, serialized)
	dislikes = matchCount(dislikeLabelRe, serialized)
	return likes, dislikes
}

func matchCount(re *regexp.Regexp, text []byte) *int64 {
	m := re.FindSubmatch(text)
	if m == nil {
		return nil
	}
	var n int64
	if label := string(m[1]); label != "No" {
		cleaned := strings.NewReplacer(",", "", ".", "").Replace(label)
		v, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return nil
		}
		n = v
	}
	return &n
}

var chatReplayUnavailable = []byte("Live chat replay is not available")

func chatAvailable(data *PageData) bool {
	if lookup(data.InitialData, "contents", "twoColumnWatchNextResults",
		"conversationBar", "liveChatRenderer") == nil {
		return false
	}
	serialized, err := json.Marshal(data.InitialData)
	if err != nil {
		return false
	}
	return !bytes.Contains(serialized, chatReplayUnavailable)
}
