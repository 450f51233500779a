package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/sirupsen/logrus"

	"cookieaudit/internal/descriptions"
	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
	"cookieaudit/internal/protocol"
	"cookieaudit/internal/workers/ingestrunner"
)

const maxBodyBytes = 1 << 20

type Server struct {
	ingester  ports.Ingester
	frames    ports.TopFrameProvider
	jobs      ports.JobRepository
	processor ingestrunner.Processor
	log       logrus.FieldLogger
}

func New(ingester ports.Ingester, frames ports.TopFrameProvider, jobs ports.JobRepository, processor ingestrunner.Processor, log logrus.FieldLogger) *Server {
	return &Server{ingester: ingester, frames: frames, jobs: jobs, processor: processor, log: log}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.getHealthz)
	r.Get("/jobs/{id}", s.getJob)
	r.Route("/sessions/{session}", func(r chi.Router) {
		r.Post("/notifications", s.postNotification)
		r.Put("/top-frame", s.putTopFrame)
		r.Delete("/top-frame", s.deleteTopFrame)
		r.Get("/issues", s.getIssues)
	})
	return r
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type notificationParams struct {
	Wait    *bool
	Timeout *int
}

func (s *Server) postNotification(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")

	var params notificationParams
	if err := runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &params.Wait); err != nil {
		s.writeError(w, r, &runtimeError{code: http.StatusBadRequest, msg: "invalid wait parameter"})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "timeout", r.URL.Query(), &params.Timeout); err != nil {
		s.writeError(w, r, &runtimeError{code: http.StatusBadRequest, msg: "invalid timeout parameter"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, &runtimeError{code: http.StatusRequestEntityTooLarge, msg: "body too large"})
		return
	}
	if len(body) == 0 {
		s.writeError(w, r, &runtimeError{code: http.StatusBadRequest, msg: "missing body"})
		return
	}

	id, err := s.jobs.Enqueue(r.Context(), session, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if params.Wait == nil || !*params.Wait {
		writeJSON(w, http.StatusAccepted, jobAccepted{JobID: id})
		return
	}

	timeout := 30
	if params.Timeout != nil && *params.Timeout > 0 {
		timeout = *params.Timeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(timeout)*time.Second)
	defer cancel()
	recs, err := ingestrunner.ProcessInline(ctx, s.jobs, s.processor, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issuesResponse{JobID: id, Issues: toIssues(recs)})
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobResponse{ID: job.ID, Session: job.SessionID, Status: job.Status, Issues: job.Issues, Error: job.Error})
}

func (s *Server) putTopFrame(w http.ResponseWriter, r *http.Request) {
	var req topFrameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.URL == "" {
		s.writeError(w, r, &runtimeError{code: http.StatusBadRequest, msg: "body must be {\"url\": \"...\"}"})
		return
	}
	session := chi.URLParam(r, "session")
	registrable, err := s.frames.Set(session, req.URL)
	if err != nil {
		s.writeError(w, r, &runtimeError{code: http.StatusBadRequest, msg: "invalid url"})
		return
	}
	writeJSON(w, http.StatusOK, topFrameResponse{Session: session, URL: req.URL, RegistrableDomain: registrable})
}

func (s *Server) deleteTopFrame(w http.ResponseWriter, r *http.Request) {
	s.frames.Forget(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getIssues(w http.ResponseWriter, r *http.Request) {
	var filter ports.IssueFilter
	var kind, code *string
	q := r.URL.Query()
	for name, dest := range map[string]any{"kind": &kind, "code": &code, "thirdParty": &filter.ThirdParty} {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
			s.writeError(w, r, &runtimeError{code: http.StatusBadRequest, msg: "invalid " + name + " parameter"})
			return
		}
	}
	if kind != nil {
		filter.Kind = domain.Kind(*kind)
	}
	if code != nil {
		filter.Code = *code
	}

	recs, err := s.ingester.List(r.Context(), chi.URLParam(r, "session"), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issuesResponse{Issues: toIssues(recs)})
}

func toIssues(recs []domain.IssueRecord) []issue {
	out := make([]issue, 0, len(recs))
	for _, rec := range recs {
		d := descriptions.For(rec.Code)
		out = append(out, issue{
			ID:          rec.ID,
			Code:        rec.Code,
			Title:       d.Title,
			Kind:        rec.Kind,
			ThirdParty:  rec.ThirdParty,
			Occurrences: rec.Occurrences,
			Report:      rec.Report,
			Links:       d.Links,
			FirstSeenAt: rec.FirstSeenAt,
			LastSeenAt:  rec.LastSeenAt,
		})
	}
	return out
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rt *runtimeError
	switch {
	case errors.As(err, &rt):
		writeJSON(w, rt.code, errorResponse{Error: rt.msg})
	case errors.Is(err, ports.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, protocol.ErrMalformed):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "timed out"})
	default:
		s.log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type runtimeError struct {
	code int
	msg  string
}

func (e *runtimeError) Error() string { return e.msg }
