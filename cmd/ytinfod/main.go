package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"ytinfo/internal/api"
	"ytinfo/internal/youtube"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("env: loaded .env")
	}

	port := getenv("PORT", "3008")
	retries := getint("SCRAPE_RETRIES", 3)
	timeout := time.Duration(getint("SCRAPE_TIMEOUT_SECONDS", 30)) * time.Second

	c := &youtube.Client{
		Retries: retries,
		Timeout: timeout,
	}
	srv := api.NewServer(c)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.HandleHealth)
	r.Get("/videos/{id}", srv.HandleVideoInfo)
	r.Get("/videos/{id}/thumbnail", srv.HandleThumbnail)
	r.Get("/channels/{id}/videos", srv.HandleChannelVideos)

	log.Printf("ytinfod listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("ytinfod: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s=%q: %v", k, v, err)
	}
	return i
}
