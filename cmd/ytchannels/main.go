package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"ytinfo/internal/db"
)

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

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatalf("missing DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	in := bufio.NewReader(os.Stdin)

	fmt.Println("Add YouTube channels to ytinfo.tracked_channels.")
	fmt.Println("Enter 'q' at any prompt to quit.")
	fmt.Println()

	for {
		id, ok := prompt(in, "channel_id")
		if !ok {
			return
		}
		if id == "" {
			fmt.Println("channel_id is required.")
			fmt.Println()
			continue
		}

		name, ok := prompt(in, "name")
		if !ok {
			return
		}
		if name == "" {
			fmt.Println("name is required.")
			fmt.Println()
			continue
		}

		handleStr, ok := prompt(in, "handle, e.g. @somecreator (optional)")
		if !ok {
			return
		}

		var handle *string
		if handleStr != "" {
			s := handleStr
			handle = &s
		}

		ch := db.Channel{
			ChannelID: id,
			Handle:    handle,
			Name:      name,
		}

		if err := db.UpsertChannel(ctx, pool, ch); err != nil {
			fmt.Printf("ERROR: %v\n\n", err)
			continue
		}

		fmt.Printf("OK: upserted channel %s (%s)\n\n", id, name)
	}
}

func prompt(in *bufio.Reader, label string) (string, bool) {
	fmt.Printf("%s: ", label)
	raw, err := in.ReadString('\n')
	if err != nil {
		return "", false
	}
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "q") {
		return "", false
	}
	return s, true
}
