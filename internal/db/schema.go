package db

// SchemaSQL is applied on startup. Statements are idempotent so every
// service can run it unconditionally.
const SchemaSQL = `
CREATE SCHEMA IF NOT EXISTS ytinfo;

CREATE TABLE IF NOT EXISTS ytinfo.tracked_channels (
	channel_id  text PRIMARY KEY,
	handle      text,
	name        text NOT NULL,
	is_active   boolean NOT NULL DEFAULT TRUE,
	added_at    timestamptz NOT NULL DEFAULT now(),
	updated_at  timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ytinfo.video_snapshots (
	video_id        text PRIMARY KEY,
	channel_id      text NOT NULL REFERENCES ytinfo.tracked_channels (channel_id),
	status          text NOT NULL,
	title           text,
	length_seconds  bigint,
	views           bigint,
	likes           bigint,
	live_content    boolean,
	publish_date    text,
	category        text,
	scraped_at      timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS video_snapshots_channel_idx
	ON ytinfo.video_snapshots (channel_id, scraped_at DESC);
`
