package youtube

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

const fullPlayerResponse = `{
	"playabilityStatus": {"status": "OK"},
	"videoDetails": {
		"videoId": "dQw4w9WgXcQ",
		"author": "Rick Astley",
		"channelId": "UCuAXFkgsw1L7xaCfnd5JJOw",
		"title": "Never Gonna Give You Up",
		"shortDescription": "The official video.",
		"lengthSeconds": "212",
		"viewCount": "1400000000",
		"isLiveContent": false,
		"averageRating": 4.88,
		"keywords": ["rick astley", "music"]
	},
	"microformat": {
		"playerMicroformatRenderer": {
			"publishDate": "2009-10-25",
			"uploadDate": "2009-10-24",
			"isFamilySafe": true,
			"isUnlisted": false,
			"category": "Music"
		}
	}
}`

const fullInitialData = `{
	"playerOverlays": {
		"playerOverlayRenderer": {
			"decoratedPlayerBarRenderer": {
				"decoratedPlayerBarRenderer": {
					"playerBar": {
						"chapteredPlayerBarRenderer": {
							"chapters": [
								{"chapterRenderer": {"title": {"simpleText": "Intro"}, "timeRangeStartMillis": 0}},
								{"chapterRenderer": {"title": {"simpleText": "Chorus"}, "timeRangeStartMillis": 43000}}
							]
						}
					}
				}
			}
		}
	},
	"contents": {
		"twoColumnWatchNextResults": {
			"results": {
				"results": {
					"contents": [
						{"toggleButtonRenderer": {"accessibilityData": {"label": "1,234 likes"}}},
						{"toggleButtonRenderer": {"accessibilityData": {"label": "56 dislikes"}}}
					]
				}
			}
		}
	}
}`

func TestExtractInfoFullRecord(t *testing.T) {
	data := &PageData{
		URL:            "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		PlayerResponse: mustDecode(t, fullPlayerResponse),
		InitialData:    mustDecode(t, fullInitialData),
	}

	info, err := ExtractInfo(data)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, info.Status)
	assert.Equal(t, "dQw4w9WgXcQ", info.ID)
	assert.Equal(t, "Rick Astley", info.Author)
	assert.Equal(t, "UCuAXFkgsw1L7xaCfnd5JJOw", info.ChannelID)
	assert.Equal(t, "Never Gonna Give You Up", info.Title)
	assert.Equal(t, "The official video.", info.Description)
	assert.Equal(t, int64(212), info.Length)
	assert.Equal(t, int64(1400000000), info.Views)

	require.NotNil(t, info.LiveContent)
	assert.False(t, *info.LiveContent)
	require.NotNil(t, info.ChatAvailable)
	assert.False(t, *info.ChatAvailable)
	require.NotNil(t, info.AverageRating)
	assert.InDelta(t, 4.88, *info.AverageRating, 1e-9)

	require.NotNil(t, info.PublishDate)
	assert.Equal(t, "2009-10-25", *info.PublishDate)
	require.NotNil(t, info.UploadDate)
	assert.Equal(t, "2009-10-24", *info.UploadDate)
	require.NotNil(t, info.FamilySafe)
	assert.True(t, *info.FamilySafe)
	require.NotNil(t, info.Unlisted)
	assert.False(t, *info.Unlisted)
	require.NotNil(t, info.Category)
	assert.Equal(t, "Music", *info.Category)

	assert.Equal(t, []string{"rick astley", "music"}, info.Keywords)
	assert.Equal(t, []Chapter{
		{Title: "Intro", StartTimeMS: 0},
		{Title: "Chorus", StartTimeMS: 43000},
	}, info.Chapters)

	require.NotNil(t, info.Likes)
	assert.Equal(t, int64(1234), *info.Likes)
	require.NotNil(t, info.Dislikes)
	assert.Equal(t, int64(56), *info.Dislikes)

	assert.Nil(t, info.StartTime)
	assert.Nil(t, info.EndTime)

	_, err = time.Parse(time.RFC3339, info.Timestamp)
	assert.NoError(t, err, "timestamp must be RFC 3339")
}

func TestExtractInfoOptionalFieldsAbsent(t *testing.T) {
	player := mustDecode(t, fullPlayerResponse)
	details := player["videoDetails"].(map[string]any)
	delete(details, "averageRating")
	delete(details, "keywords")
	delete(player, "microformat")

	data := &PageData{
		URL:            "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		PlayerResponse: player,
		InitialData:    map[string]any{},
	}

	info, err := ExtractInfo(data)
	require.NoError(t, err)

	assert.Nil(t, info.AverageRating)
	assert.Empty(t, info.Keywords)
	assert.Nil(t, info.PublishDate)
	assert.Nil(t, info.FamilySafe)
	assert.Nil(t, info.Unlisted)
	assert.Nil(t, info.Category)
	assert.Nil(t, info.Chapters, "missing chapter path leaves chapters nil")
	assert.Nil(t, info.Likes)
	assert.Nil(t, info.Dislikes)
}

func TestStatusDisambiguatesLoginRequired(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{
			name:   "reason means age restricted",
			status: `{"status": "LOGIN_REQUIRED", "reason": "Sign in to confirm your age"}`,
			want:   StatusAgeRestricted,
		},
		{
			name:   "messages means private",
			status: `{"status": "LOGIN_REQUIRED", "messages": ["This is a private video."]}`,
			want:   StatusPrivate,
		},
		{
			name:   "plain statuses pass through",
			status: `{"status": "UNPLAYABLE"}`,
			want:   "UNPLAYABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := &PageData{
				PlayerResponse: mustDecode(t, `{"playabilityStatus": `+tt.status+`}`),
				InitialData:    map[string]any{},
			}
			assert.Equal(t, tt.want, Status(data))
		})
	}
}

func TestExtractInfoMinimalRecord(t *testing.T) {
	for _, raw := range []string{
		`{"playabilityStatus": {"status": "ERROR", "reason": "Video unavailable"}}`,
		`{"playabilityStatus": {"status": "LOGIN_REQUIRED", "messages": ["This is a private video."]}}`,
	} {
		data := &PageData{
			URL:            "https://www.youtube.com/watch?v=gone12345_-",
			PlayerResponse: mustDecode(t, raw),
			InitialData:    map[string]any{},
		}

		info, err := ExtractInfo(data)
		require.NoError(t, err)
		assert.Equal(t, "gone12345_-", info.ID)
		assert.NotEmpty(t, info.Timestamp)

		// Only status, timestamp and id may appear in the record.
		b, err := json.Marshal(info)
		require.NoError(t, err)
		var keys map[string]any
		require.NoError(t, json.Unmarshal(b, &keys))
		assert.Len(t, keys, 3)
		assert.Contains(t, keys, "status")
		assert.Contains(t, keys, "timestamp")
		assert.Contains(t, keys, "id")
	}
}

func TestExtractInfoMinimalRecordShortURL(t *testing.T) {
	data := &PageData{
		URL:            "https://youtu.be/gone12345_-",
		PlayerResponse: mustDecode(t, `{"playabilityStatus": {"status": "ERROR"}}`),
		InitialData:    map[string]any{},
	}
	info, err := ExtractInfo(data)
	require.NoError(t, err)
	assert.Equal(t, StatusError, info.Status)
	assert.Equal(t, "gone12345_-", info.ID)
}

func TestExtractInfoMissingDetailsIsMalformed(t *testing.T) {
	data := &PageData{
		URL:            "https://www.youtube.com/watch?v=abc123",
		PlayerResponse: mustDecode(t, `{"playabilityStatus": {"status": "OK"}}`),
		InitialData:    map[string]any{},
	}

	_, err := ExtractInfo(data)
	var malformed *MalformedDataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "videoDetails", malformed.Field)
}

func TestExtractInfoMissingVideoIDIsMalformed(t *testing.T) {
	player := mustDecode(t, fullPlayerResponse)
	delete(player["videoDetails"].(map[string]any), "videoId")

	data := &PageData{
		URL:            "https://www.youtube.com/watch?v=abc123",
		PlayerResponse: player,
		InitialData:    map[string]any{},
	}

	_, err := ExtractInfo(data)
	var malformed *MalformedDataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "videoDetails.videoId", malformed.Field)
}

func TestMatchCount(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  *int64
		likes bool
	}{
		{name: "thousands separated", text: `{"label":"1,234 likes"}`, want: ptr(int64(1234)), likes: true},
		{name: "dotted separator", text: `{"label":"1.234 likes"}`, want: ptr(int64(1234)), likes: true},
		{name: "no likes", text: `{"label":"No likes"}`, want: ptr(int64(0)), likes: true},
		{name: "absent label", text: `{"label":"Share"}`, want: nil, likes: true},
		{name: "dislikes", text: `{"label":"77 dislikes"}`, want: ptr(int64(77)), likes: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := likeLabelRe
			if !tt.likes {
				re = dislikeLabelRe
			}
			got := matchCount(re, []byte(tt.text))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestChatAvailable(t *testing.T) {
	base := `{"contents": {"twoColumnWatchNextResults": {"conversationBar": {"liveChatRenderer": {}}}}}`

	t.Run("renderer present", func(t *testing.T) {
		data := &PageData{InitialData: mustDecode(t, base)}
		assert.True(t, chatAvailable(data))
	})

	t.Run("renderer absent", func(t *testing.T) {
		data := &PageData{InitialData: map[string]any{}}
		assert.False(t, chatAvailable(data))
	})

	t.Run("replay unavailable", func(t *testing.T) {
		data := &PageData{InitialData: mustDecode(t,
			`{"contents": {"twoColumnWatchNextResults": {"conversationBar": {"liveChatRenderer": {"text": "Live chat replay is not available for this video."}}}}}`)}
		assert.False(t, chatAvailable(data))
	})
}

func TestExtractInfoLiveBroadcastTimes(t *testing.T) {
	player := mustDecode(t, fullPlayerResponse)
	micro := player["microformat"].(map[string]any)["playerMicroformatRenderer"].(map[string]any)
	micro["liveBroadcastDetails"] = map[string]any{
		"startTimestamp": "2023-06-13T12:00:00+00:00",
		"endTimestamp":   "2023-06-13T14:00:00+00:00",
	}

	data := &PageData{
		URL:            "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		PlayerResponse: player,
		InitialData:    map[string]any{},
	}

	info, err := ExtractInfo(data)
	require.NoError(t, err)
	require.NotNil(t, info.StartTime)
	assert.Equal(t, "2023-06-13T12:00:00+00:00", *info.StartTime)
	require.NotNil(t, info.EndTime)
	assert.Equal(t, "2023-06-13T14:00:00+00:00", *info.EndTime)
}

func ptr[T any](v T) *T { return &v }
