package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/heimdex/storyreel/internal/export"
)

func exportStoryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
		if format == "" {
			format = export.FormatText
		}
		if !export.IsSupported(format) {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q, use txt or edl", format), "UNSUPPORTED_FORMAT")
			return
		}

		req, ok := decodeStoryRequest(w, r, cfg)
		if !ok {
			return
		}

		res, info := generate(r.Context(), cfg, req, format)

		genreName := info.Genre
		if b, found := cfg.Generator.Catalog().Lookup(info.Genre); found {
			genreName = b.Name
		}

		body, err := export.Render(res, export.Title(genreName, req.Protagonist), format)
		if err != nil {
			cfg.Logger.Error("export render failed", "error", err, "format", format, "request_id", RequestID(r.Context()))
			WriteError(w, http.StatusInternalServerError, "failed to render export", "INTERNAL_ERROR")
			return
		}

		filename := export.Filename(info.Genre, req.Protagonist, format)
		w.Header().Set("Content-Type", export.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
