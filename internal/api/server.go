package api

import (
	"context"
	"encoding/json"
	"net/http"

	"ytinfo/internal/youtube"
)

// Scraper is the slice of the youtube client the HTTP surface needs.
type Scraper interface {
	GetInfo(ctx context.Context, in string) (*youtube.VideoInfo, error)
	GetChannelVideos(ctx context.Context, in string) ([]string, error)
	GetThumbnail(ctx context.Context, in, format string) ([]byte, error)
}

type Server struct {
	scraper Scraper
}

func NewServer(s Scraper) *Server {
	return &Server{scraper: s}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "ytinfod",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
