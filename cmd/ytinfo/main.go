package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ytinfo/internal/youtube"
)

const usage = `usage:
  ytinfo getinfo <video url or id>
  ytinfo getchannelvideos <channel url, @handle or id>
  ytinfo getthumbnail <video url or id> <filename>

flags (before the subcommand):
  -retries N    retry budget per request (default 3)
  -timeout D    overall deadline per operation, e.g. 30s (default none)
  -format F     thumbnail format, maxres or hq (default maxres)
  -tabs LIST    channel tabs, comma separated (default videos,streams,shorts)
`

func main() {
	log.SetFlags(0)

	retries := flag.Int("retries", 3, "retry budget per request")
	timeout := flag.Duration("timeout", 0, "overall deadline per operation")
	format := flag.String("format", youtube.ThumbnailMaxRes, "thumbnail format")
	tabs := flag.String("tabs", "", "channel tabs, comma separated")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	c := &youtube.Client{
		Retries: *retries,
		Timeout: *timeout,
	}
	if *tabs != "" {
		c.Tabs = strings.Split(*tabs, ",")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "getinfo":
		info, err := c.GetInfo(ctx, args[1])
		if err != nil {
			log.Fatalf("getinfo: %v", err)
		}
		out, err := json.MarshalIndent(info, "", "    ")
		if err != nil {
			log.Fatalf("getinfo: %v", err)
		}
		fmt.Println(string(out))

	case "getchannelvideos":
		ids, err := c.GetChannelVideos(ctx, args[1])
		if err != nil {
			log.Fatalf("getchannelvideos: %v", err)
		}
		fmt.Println(strings.Join(ids, "\n"))

	case "getthumbnail":
		if len(args) < 3 {
			flag.Usage()
			os.Exit(2)
		}
		img, err := c.GetThumbnail(ctx, args[1], *format)
		if err != nil {
			log.Fatalf("getthumbnail: %v", err)
		}
		if err := os.WriteFile(args[2], img, 0o644); err != nil {
			log.Fatalf("getthumbnail: %v", err)
		}

	default:
		flag.Usage()
		os.Exit(2)
	}
}
