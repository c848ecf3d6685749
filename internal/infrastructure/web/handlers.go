package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"search-agent/internal/domain/entity"
)

const messageBusy = "A query is already being processed."

//go:embed templates/index.html
var templateFS embed.FS

func parsePage() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/index.html")
}

type pageData struct {
	Title    string
	Subtitle string
	Theme    entity.Theme
	Query    string
	Response string
	Warning  string
	Error    string
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Status    string `json:"status"`
	Response  string `json:"response,omitempty"`
	Message   string `json:"message,omitempty"`
	Attempts  int    `json:"attempts"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.newPage(""))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	query := r.PostFormValue("query")
	data := s.newPage(query)

	id := sessionID(r.Context())
	if !s.guard.acquire(id) {
		data.Warning = messageBusy
		s.render(w, http.StatusConflict, data)
		return
	}
	defer s.guard.release(id)

	outcome := s.runner.Run(r.Context(), query)
	switch outcome.Kind {
	case entity.OutcomeSuccess:
		data.Response = outcome.Text
	case entity.OutcomeRejected:
		data.Warning = outcome.UserMessage()
	default:
		data.Error = outcome.UserMessage()
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleAPIQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, queryResponse{Status: "invalid", Message: "invalid json"})
		return
	}

	id := sessionID(r.Context())
	if !s.guard.acquire(id) {
		writeJSON(w, http.StatusConflict, queryResponse{Status: "busy", Message: messageBusy})
		return
	}
	defer s.guard.release(id)

	outcome := s.runner.Run(r.Context(), req.Query)
	writeJSON(w, statusFor(outcome.Kind), queryResponse{
		Status:    string(outcome.Kind),
		Response:  outcome.Text,
		Message:   outcome.UserMessage(),
		Attempts:  outcome.Attempts,
		ElapsedMS: outcome.Elapsed.Milliseconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(kind entity.OutcomeKind) int {
	switch kind {
	case entity.OutcomeRejected:
		return http.StatusUnprocessableEntity
	case entity.OutcomeError:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func (s *Server) newPage(query string) pageData {
	return pageData{
		Title:    s.cfg.Title,
		Subtitle: s.cfg.Subtitle,
		Theme:    s.cfg.Theme,
		Query:    query,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
