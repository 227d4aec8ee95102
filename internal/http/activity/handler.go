package activity

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nafaymotors/inventory/internal/activity"
	"github.com/nafaymotors/inventory/internal/apierror"
	"github.com/nafaymotors/inventory/internal/http/response"
)

type Handler struct {
	log *activity.Logger
}

func NewHandler(log *activity.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/recent-activities", h.recent)
	r.Get("/download", h.download)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	days := 2
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			days = n
		}
	}

	entries, err := h.log.Recent(days)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, "Recent activities retrieved successfully", entries)
}

// download lists the rotated log files when no file is named, and streams
// one file's raw content otherwise.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("file")
	if name == "" {
		files, err := h.log.Files()
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, "Log files retrieved successfully", files)

		return
	}

	content, err := h.log.FileContent(name)
	if err != nil {
		response.Error(w, err)
		return
	}

	if content == nil {
		response.Error(w, apierror.NotFound("Log file not found"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
