package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"webforge/internal/domain"
	"webforge/internal/usecase"
)

type jobCreateRequest struct {
	URL string `json:"url"`
}

type jobResponse struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Identifier   string    `json:"identifier,omitempty"`
	Error        string    `json:"error,omitempty"`
	VersionsDone int       `json:"versions_done,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type siteSummaryResponse struct {
	Identifier string    `json:"identifier"`
	SourceURL  string    `json:"source_url"`
	Versions   []int     `json:"versions"`
	CreatedAt  time.Time `json:"created_at"`
}

func jobCreateHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		job, err := jobUC.Create(r.Context(), req.URL)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrQueueFull):
				writeError(w, http.StatusServiceUnavailable, "server is busy, try again later")
			default:
				writeError(w, http.StatusInternalServerError, "failed to create job")
			}
			return
		}

		writeJSON(w, http.StatusAccepted, jobResponse{
			ID:        job.ID,
			Status:    string(job.Status),
			CreatedAt: job.CreatedAt,
		})
	}
}

func jobStatusHandler(jobUC usecase.JobUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		view, err := jobUC.Status(r.Context(), jobID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrNotFound):
				writeError(w, http.StatusNotFound, "job not found")
			default:
				writeError(w, http.StatusInternalServerError, "failed to get job status")
			}
			return
		}

		writeJSON(w, http.StatusOK, jobResponse{
			ID:           view.ID,
			Status:       string(view.Status),
			Identifier:   view.Identifier,
			Error:        view.Error,
			VersionsDone: view.VersionsDone,
			CreatedAt:    view.CreatedAt,
			UpdatedAt:    view.UpdatedAt,
		})
	}
}

// artifactHandler serves the generated document itself, not a JSON wrapper.
// ?version=k picks an explicit version; without it the lowest available one
// is returned.
func artifactHandler(siteUC usecase.SiteUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := chi.URLParam(r, "identifier")

		number := 0
		if raw := r.URL.Query().Get("version"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "version must be a positive integer")
				return
			}
			number = n
		}

		version, err := siteUC.Artifact(r.Context(), identifier, number)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrNotFound):
				writeError(w, http.StatusNotFound, "site not found")
			case errors.Is(err, domain.ErrVersionNotAvailable):
				writeError(w, http.StatusNotFound, "version not available")
			default:
				writeError(w, http.StatusInternalServerError, "failed to get artifact")
			}
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(version.Artifact))
	}
}

func sitesListHandler(siteUC usecase.SiteUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		summaries, err := siteUC.ListRecent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list sites")
			return
		}

		data := make([]siteSummaryResponse, 0, len(summaries))
		for _, s := range summaries {
			data = append(data, siteSummaryResponse{
				Identifier: s.Identifier,
				SourceURL:  s.SourceURL,
				Versions:   s.Versions,
				CreatedAt:  s.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, struct {
			Data []siteSummaryResponse `json:"data"`
		}{Data: data})
	}
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		overall, dbStatus := "ok", "ok"
		status := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			overall, dbStatus = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, struct {
			Status    string    `json:"status"`
			Database  string    `json:"database"`
			Timestamp time.Time `json:"timestamp"`
		}{
			Status:    overall,
			Database:  dbStatus,
			Timestamp: time.Now().UTC(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
