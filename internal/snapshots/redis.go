package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ytinfo/internal/youtube"
)

type RedisStore struct {
	Client *redis.Client
}

func KeyForChannel(channelID string) string {
	// Use {...} so Redis Cluster users get stable hash slotting per channel key.
	return fmt.Sprintf("ytinfo_videos:{%s}", channelID)
}

// UpsertChannelVideos replaces the cached view of a channel with the
// given records. Fields not present in infos are removed, so the hash
// stays an exact mirror of the latest listing.
func (s *RedisStore) UpsertChannelVideos(ctx context.Context, channelID string, infos []*youtube.VideoInfo) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("nil redis client")
	}

	key := KeyForChannel(channelID)

	existing, err := s.Client.HKeys(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis HKEYS %s: %w", key, err)
	}

	pipe := s.Client.Pipeline()

	keep := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info.ID == "" {
			continue
		}
		keep[info.ID] = struct{}{}
		b, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("marshal info %s: %w", info.ID, err)
		}
		// Use single-field HSET calls for maximum compatibility (older Redis servers
		// may not support multi-field HSET).
		pipe.HSet(ctx, key, info.ID, string(b))
	}

	var toDelete []string
	for _, field := range existing {
		if _, ok := keep[field]; !ok {
			toDelete = append(toDelete, field)
		}
	}
	if len(toDelete) > 0 {
		pipe.HDel(ctx, key, toDelete...)
	}

	// Keep data around for a week. Each update refreshes the TTL.
	pipe.Expire(ctx, key, 7*24*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec %s: %w", key, err)
	}
	return nil
}

// GetChannelVideos reads back every cached record for a channel.
func (s *RedisStore) GetChannelVideos(ctx context.Context, channelID string) ([]*youtube.VideoInfo, error) {
	if s == nil || s.Client == nil {
		return nil, fmt.Errorf("nil redis client")
	}

	key := KeyForChannel(channelID)
	vals, err := s.Client.HVals(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HVALS %s: %w", key, err)
	}

	out := make([]*youtube.VideoInfo, 0, len(vals))
	for _, v := range vals {
		var info youtube.VideoInfo
		if err := json.Unmarshal([]byte(v), &info); err != nil {
			return nil, fmt.Errorf("unmarshal cached info: %w", err)
		}
		out = append(out, &info)
	}
	return out, nil
}
