package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"cineplan/internal/app"
	"cineplan/internal/domain"
	"cineplan/internal/export"
)

// Handlers wires the planning engine to the API. Parser may be nil (no LLM
// key configured); free-text requests then answer 503 while pre-parsed
// payloads keep working.
type Handlers struct {
	Store         *app.SessionStore
	Planner       *app.Planner
	Refiner       *app.Refiner
	Parser        domain.IntentParser
	DefaultRadius float64
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/sessions", h.createSession)
	s.mux.Get("/v1/sessions/{id}", h.getSession)
	s.mux.Delete("/v1/sessions/{id}", h.deleteSession)
	s.mux.Post("/v1/sessions/{id}/search", h.search)
	s.mux.Post("/v1/sessions/{id}/refine", h.refine)
	s.mux.Get("/v1/sessions/{id}/export", h.exportPlan)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	s, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
		return nil, false
	}
	return s, true
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	s := h.Store.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": s.ID})
}

type planView struct {
	ID     string             `json:"id"`
	Groups []domain.PlanGroup `json:"groupes"`
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	resp := planView{ID: s.ID, Groups: s.Snapshot()}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write plan view body")
	}
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	h.Store.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type searchRequest struct {
	Query    string          `json:"query,omitempty"`
	Intents  json.RawMessage `json:"intents,omitempty"`
	RadiusKm float64         `json:"rayon_km,omitempty"`
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON")
		return
	}

	raw, ok := h.rawPayload(w, r, req.Query, req.Intents)
	if !ok {
		return
	}
	intents, warnings := app.ParseIntents(raw)

	radius := req.RadiusKm
	if radius <= 0 {
		radius = h.DefaultRadius
	}
	res := h.Planner.SearchPlan(r.Context(), s, intents, radius)
	res.Warnings = append(warnings, res.Warnings...)
	writeJSON(w, http.StatusOK, res)
}

type refineRequest struct {
	Query       string          `json:"query,omitempty"`
	Instruction json.RawMessage `json:"instruction,omitempty"`
}

func (h *Handlers) refine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON")
		return
	}

	var raw string
	switch {
	case req.Query != "":
		if h.Parser == nil {
			writeProblem(w, http.StatusServiceUnavailable, "Parser unavailable", "free-text parsing is not configured")
			return
		}
		out, err := h.Parser.ParseRefinement(r.Context(), req.Query)
		if err != nil {
			writeProblem(w, http.StatusBadGateway, "Parser failed", err.Error())
			return
		}
		raw = out
	case len(req.Instruction) > 0:
		raw = string(req.Instruction)
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid body", "either query or instruction is required")
		return
	}

	out := h.Refiner.Apply(r.Context(), s, app.ParseInstruction(raw))
	writeJSON(w, http.StatusOK, out)
}

// rawPayload picks free text routed through the parser, or the pre-parsed
// payload as-is.
func (h *Handlers) rawPayload(w http.ResponseWriter, r *http.Request, query string, pre json.RawMessage) (string, bool) {
	switch {
	case query != "":
		if h.Parser == nil {
			writeProblem(w, http.StatusServiceUnavailable, "Parser unavailable", "free-text parsing is not configured")
			return "", false
		}
		out, err := h.Parser.ParseIntents(r.Context(), query)
		if err != nil {
			writeProblem(w, http.StatusBadGateway, "Parser failed", err.Error())
			return "", false
		}
		return out, true
	case len(pre) > 0:
		return string(pre), true
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid body", "either query or intents is required")
		return "", false
	}
}

func (h *Handlers) exportPlan(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	groups := s.Snapshot()

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "table":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(export.Table(groups)))
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="plan_cinemas.csv"`)
		_, _ = w.Write([]byte(export.CSV(groups)))
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid format", "format must be table or csv")
	}
}
