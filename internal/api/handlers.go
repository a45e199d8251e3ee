package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ytinfo/internal/youtube"
)

func (s *Server) HandleVideoInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "video id is required")
		return
	}

	info, err := s.scraper.GetInfo(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) HandleChannelVideos(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "channel id is required")
		return
	}

	ids, err := s.scraper.GetChannelVideos(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": ids})
}

func (s *Server) HandleThumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "video id is required")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = youtube.ThumbnailMaxRes
	}

	img, err := s.scraper.GetThumbnail(r.Context(), id, format)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// statusFor maps the library's typed errors onto HTTP statuses. Caller
// mistakes are 4xx; anything upstream-shaped is a gateway error.
func statusFor(err error) int {
	var (
		invalid   *youtube.InvalidInputError
		timeout   *youtube.TimeoutError
		retries   *youtube.RetryError
		malformed *youtube.MalformedDataError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &retries), errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
