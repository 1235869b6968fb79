package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/heimdex/storyreel/internal/history"
	"github.com/heimdex/storyreel/internal/logging"
	"github.com/heimdex/storyreel/internal/story"
	"github.com/heimdex/storyreel/internal/telemetry"
)

const (
	maxBodyBytes   = 64 << 10
	maxStatsRecent = 100
	defaultVersion = "0.1.0"
	logInputRunes  = 40

	healthPingTimeout = 2 * time.Second
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	if cfg.Generator == nil {
		cfg.Generator = story.NewGenerator(nil)
	}
	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	if cfg.MaxFieldLen <= 0 {
		cfg.MaxFieldLen = DefaultMaxFieldLen
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(TracingMiddleware(telemetry.Tracer()))
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/genres", genresHandler(cfg))
		r.Post("/story", storyHandler(cfg))
		r.Post("/story/export", exportStoryHandler(cfg))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Tokens, cfg.Logger))
			r.Get("/stats", statsHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:     "ok",
			Version:    cfg.Version,
			UptimeS:    int64(time.Since(cfg.StartTime).Seconds()),
			InstanceID: cfg.InstanceID,
			Database:   "disabled",
		}
		status := http.StatusOK

		if cfg.Database != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			defer cancel()
			resp.Database = "ok"
			if err := cfg.Database.Ping(ctx); err != nil {
				cfg.Logger.Warn("database ping failed", "error", err)
				resp.Status = "degraded"
				resp.Database = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		WriteJSON(w, status, resp)
	}
}

func genresHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog := cfg.Generator.Catalog()
		WriteJSON(w, http.StatusOK, GenresResponse{
			Default: catalog.Default().Key,
			Genres:  catalog.Genres(),
		})
	}
}

func storyHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeStoryRequest(w, r, cfg)
		if !ok {
			return
		}

		res, _ := generate(r.Context(), cfg, req, history.FormatJSON)

		WriteJSON(w, http.StatusOK, StoryResponse{
			OK:          true,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Inputs:      req,
			Story:       res,
		})
	}
}

func statsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Stats == nil {
			WriteError(w, http.StatusServiceUnavailable, "usage log is disabled", "UNAVAILABLE")
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxStatsRecent {
				WriteError(w, http.StatusBadRequest, "limit must be between 1 and 100", "BAD_REQUEST")
				return
			}
			limit = n
		}

		stats, err := cfg.Stats.Stats(r.Context(), limit)
		if err != nil {
			cfg.Logger.Error("failed to load stats", "error", err, "request_id", RequestID(r.Context()))
			WriteError(w, http.StatusInternalServerError, "failed to load stats", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, StatsToResponse(stats))
	}
}

// decodeStoryRequest reads and resolves the request body, writing the error
// response itself when it returns false. An empty body means all defaults.
func decodeStoryRequest(w http.ResponseWriter, r *http.Request, cfg ServerConfig) (story.Request, bool) {
	var body StoryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(&body)
	if err == nil {
		// The body must hold exactly one JSON value.
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("trailing data after request body")
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return story.Request{}, false
	}

	req, err := ResolveInputs(body, cfg.MaxFieldLen)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return story.Request{}, false
	}
	return req, true
}

// generate runs the synthesis inside a story.generate span and records the
// outcome in the usage log.
func generate(ctx context.Context, cfg ServerConfig, req story.Request, format string) (story.Result, story.Info) {
	ctx, span := telemetry.Tracer().Start(ctx, "story.generate",
		trace.WithAttributes(
			attribute.String("story.genre.requested", req.Genre),
			attribute.String("story.format", format),
		),
	)
	defer span.End()

	start := time.Now()
	res, info := cfg.Generator.GenerateWithInfo(req)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("story.genre", info.Genre),
		attribute.Bool("story.genre.fallback", info.Fallback),
		attribute.Int("story.word_count", res.WordCount),
		attribute.Int("story.scene_count", len(res.CapCut.Scenes)),
	)

	logger := logging.WithComponent(logging.WithRequestID(cfg.Logger, RequestID(ctx)), "api")
	logger.Info("story generated",
		"genre", info.Genre,
		"requested_genre", logging.Truncate(req.Genre, logInputRunes),
		"fallback", info.Fallback,
		"word_count", res.WordCount,
		"format", format,
	)

	if cfg.History != nil {
		err := cfg.History.Record(ctx, &history.Generation{
			Genre:         req.Genre,
			ResolvedGenre: info.Genre,
			Fallback:      info.Fallback,
			WordCount:     res.WordCount,
			SceneCount:    len(res.CapCut.Scenes),
			DurationMs:    elapsed.Milliseconds(),
			Format:        format,
		})
		if err != nil {
			span.SetStatus(codes.Error, "usage log write failed")
			logger.Warn("failed to record generation", "error", err)
		}
	}

	return res, info
}
