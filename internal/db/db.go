package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ytinfo/internal/youtube"
)

type Channel struct {
	ChannelID string
	Handle    *string
	Name      string
}

// Snapshot is one captured VideoInfo row. Optional fields stay nullable
// so absent-at-capture is distinguishable from zero.
type Snapshot struct {
	VideoID   string
	ChannelID string
	Status    string
	Title     *string
	Length    *int64
	Views     *int64
	Likes     *int64
	Live      *bool
	Publish   *string
	Category  *string
	ScrapedAt time.Time
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	normalizedURL, schema := normalizeDatabaseURL(databaseURL)
	cfg, err := pgxpool.ParseConfig(normalizedURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		if cfg.ConnConfig.RuntimeParams == nil {
			cfg.ConnConfig.RuntimeParams = map[string]string{}
		}
		cfg.ConnConfig.RuntimeParams["search_path"] = schema
	}
	// We intentionally use the SimpleProtocol so we can run multi-statement schema SQL.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return p, nil
}

func normalizeDatabaseURL(databaseURL string) (string, string) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL, ""
	}
	q := u.Query()
	schema := q.Get("schema")
	if schema == "" {
		return databaseURL, ""
	}
	q.Del("schema")
	u.RawQuery = q.Encode()
	return u.String(), schema
}

func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("nil pool")
	}
	if _, err := pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func ListActiveChannels(ctx context.Context, pool *pgxpool.Pool) ([]Channel, error) {
	rows, err := pool.Query(ctx, `
		SELECT channel_id, handle, name
		FROM ytinfo.tracked_channels
		WHERE is_active = true
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tracked channels: %w", err)
	}
	defer rows.Close()

	var out []Channel
	for rows.Next() {
		var c Channel
		if err := rows.Scan(&c.ChannelID, &c.Handle, &c.Name); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate channels: %w", rows.Err())
	}
	return out, nil
}

func UpsertChannel(ctx context.Context, pool *pgxpool.Pool, c Channel) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO ytinfo.tracked_channels (
			channel_id,
			handle,
			name,
			is_active,
			updated_at
		) VALUES ($1,$2,$3,TRUE,now())
		ON CONFLICT (channel_id)
		DO UPDATE SET
			handle = EXCLUDED.handle,
			name = EXCLUDED.name,
			is_active = TRUE,
			updated_at = now()
	`, c.ChannelID, c.Handle, c.Name)
	if err != nil {
		return fmt.Errorf("upsert channel (id=%s): %w", c.ChannelID, err)
	}
	return nil
}

// SnapshotFromInfo flattens an extracted record into a storable row.
// Minimal ERROR/PRIVATE records land with everything but status null.
func SnapshotFromInfo(channelID string, info *youtube.VideoInfo) Snapshot {
	s := Snapshot{
		VideoID:   info.ID,
		ChannelID: channelID,
		Status:    info.Status,
		Length:    nullableInt(info.Length),
		Views:     nullableInt(info.Views),
		Likes:     info.Likes,
		Live:      info.LiveContent,
		Publish:   info.PublishDate,
		Category:  info.Category,
		ScrapedAt: time.Now().UTC(),
	}
	if info.Title != "" {
		t := info.Title
		s.Title = &t
	}
	if ts, err := time.Parse(time.RFC3339, info.Timestamp); err == nil {
		s.ScrapedAt = ts
	}
	return s
}

func nullableInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func UpsertSnapshot(ctx context.Context, pool *pgxpool.Pool, s Snapshot) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO ytinfo.video_snapshots (
			video_id,
			channel_id,
			status,
			title,
			length_seconds,
			views,
			likes,
			live_content,
			publish_date,
			category,
			scraped_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
		)
		ON CONFLICT (video_id)
		DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			status = EXCLUDED.status,
			title = EXCLUDED.title,
			length_seconds = EXCLUDED.length_seconds,
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			live_content = EXCLUDED.live_content,
			publish_date = EXCLUDED.publish_date,
			category = EXCLUDED.category,
			scraped_at = EXCLUDED.scraped_at
	`, s.VideoID, s.ChannelID, s.Status, s.Title, s.Length, s.Views, s.Likes,
		s.Live, s.Publish, s.Category, s.ScrapedAt)
	if err != nil {
		return fmt.Errorf("upsert snapshot (video=%s): %w", s.VideoID, err)
	}
	return nil
}

// ExistingVideoIDs returns the video IDs already snapshotted for a
// channel, so a poll run only extracts pages for unseen videos.
func ExistingVideoIDs(ctx context.Context, pool *pgxpool.Pool, channelID string) (map[string]struct{}, error) {
	rows, err := pool.Query(ctx, `
		SELECT video_id
		FROM ytinfo.video_snapshots
		WHERE channel_id = $1
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("query existing video ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan video id: %w", err)
		}
		out[id] = struct{}{}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate video ids: %w", rows.Err())
	}
	return out, nil
}
