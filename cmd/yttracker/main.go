package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"ytinfo/internal/db"
	"ytinfo/internal/snapshots"
	"ytinfo/internal/youtube"
)

type Config struct {
	DatabaseURL   string
	RedisURL      string
	RedisPassword string

	PollInterval   time.Duration
	ScrapeTimeout  time.Duration
	Retries        int
	RequestDelayMS int
	Tabs           []string

	// RecentWindow listing entries are re-fetched every poll so view
	// counts and live state stay fresh; older entries only get fetched
	// once, when first seen.
	RecentWindow     int
	MaxVideosPerPoll int
}

func main() {
	// Load .env automatically (if present). Real environment variables still override.
	// Optional override: ENV_FILE=path/to/.env
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			log.Printf("env: failed to load ENV_FILE=%q: %v", envFile, err)
		} else {
			log.Printf("env: loaded %s", envFile)
		}
	} else {
		if err := godotenv.Load(); err == nil {
			log.Printf("env: loaded .env")
		}
	}

	cfg := mustLoadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	rdb, err := newRedisClient(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer func() { _ = rdb.Close() }()
	store := &snapshots.RedisStore{Client: rdb}

	yt := &youtube.Client{
		Retries: cfg.Retries,
		Timeout: cfg.ScrapeTimeout,
		Tabs:    cfg.Tabs,
	}

	run := func() {
		if err := pollOnce(ctx, pool, yt, store, cfg); err != nil {
			log.Printf("poll: run failed: %v", err)
		}
	}

	log.Printf("poll: running immediately on startup (interval=%s)", cfg.PollInterval)
	run()

	t := time.NewTicker(cfg.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("shutdown: %v", ctx.Err())
			return
		case <-t.C:
			run()
		}
	}
}

func pollOnce(ctx context.Context, pool *pgxpool.Pool, yt *youtube.Client, store *snapshots.RedisStore, cfg Config) error {
	channels, err := db.ListActiveChannels(ctx, pool)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		log.Printf("poll: no active channels in ytinfo.tracked_channels")
		return nil
	}

	var fail int
	for i, ch := range channels {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		in := ch.ChannelID
		if ch.Handle != nil && *ch.Handle != "" {
			in = *ch.Handle
		}

		ids, err := yt.GetChannelVideos(ctx, in)
		if err != nil {
			fail++
			log.Printf("poll: channel=%s listing error: %v", ch.ChannelID, err)
			continue
		}

		existing, err := db.ExistingVideoIDs(ctx, pool, ch.ChannelID)
		if err != nil {
			fail++
			log.Printf("poll: channel=%s db error: %v", ch.ChannelID, err)
			continue
		}

		var toFetch []string
		var unseen int
		for idx, id := range ids {
			if len(toFetch) >= cfg.MaxVideosPerPoll {
				break
			}
			_, seen := existing[id]
			if !seen {
				unseen++
			}
			if idx < cfg.RecentWindow || !seen {
				toFetch = append(toFetch, id)
			}
		}

		infos := make([]*youtube.VideoInfo, 0, len(toFetch))
		for _, id := range toFetch {
			info, err := yt.GetInfo(ctx, id)
			if err != nil {
				log.Printf("poll: channel=%s video=%s info error: %v", ch.ChannelID, id, err)
				continue
			}
			if err := db.UpsertSnapshot(ctx, pool, db.SnapshotFromInfo(ch.ChannelID, info)); err != nil {
				log.Printf("poll: channel=%s video=%s upsert error: %v", ch.ChannelID, id, err)
				continue
			}
			infos = append(infos, info)

			if cfg.RequestDelayMS > 0 {
				time.Sleep(time.Duration(cfg.RequestDelayMS) * time.Millisecond)
			}
		}

		if len(infos) > 0 {
			if err := store.UpsertChannelVideos(ctx, ch.ChannelID, infos); err != nil {
				fail++
				log.Printf("poll: channel=%s redis error: %v", ch.ChannelID, err)
				continue
			}
		}

		log.Printf("poll: ok (%d/%d) channel=%s listed=%d fetched=%d new=%d",
			i+1, len(channels), ch.ChannelID, len(ids), len(infos), unseen)
	}

	if fail > 0 {
		return fmt.Errorf("poll completed with %d/%d channel failures", fail, len(channels))
	}
	return nil
}

func mustLoadConfig() Config {
	getInt := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid %s=%q: %v", key, v, err)
		}
		return i
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatalf("missing DATABASE_URL")
	}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatalf("missing REDIS_URL")
	}

	var tabs []string
	if raw := os.Getenv("CHANNEL_TABS"); raw != "" {
		for _, tab := range strings.Split(raw, ",") {
			if tab = strings.TrimSpace(tab); tab != "" {
				tabs = append(tabs, tab)
			}
		}
	}

	return Config{
		DatabaseURL:      dbURL,
		RedisURL:         redisURL,
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		PollInterval:     time.Duration(getInt("POLL_INTERVAL_SECONDS", 900)) * time.Second,
		ScrapeTimeout:    time.Duration(getInt("SCRAPE_TIMEOUT_SECONDS", 60)) * time.Second,
		Retries:          getInt("SCRAPE_RETRIES", 3),
		RequestDelayMS:   getInt("REQUEST_DELAY_MS", 150),
		Tabs:             tabs,
		RecentWindow:     getInt("RECENT_WINDOW", 10),
		MaxVideosPerPoll: getInt("MAX_VIDEOS_PER_POLL", 25),
	}
}

func newRedisClient(redisURL, redisPassword string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if redisPassword != "" {
		opt.Password = redisPassword
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
