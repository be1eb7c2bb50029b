package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"GoDFA/internal/automaton"
	"GoDFA/internal/definition"
	"GoDFA/internal/render"
	"GoDFA/internal/store"
	"GoDFA/internal/subset"
)

// Handler holds HTTP handlers for the automaton API.
type Handler struct {
	mgr    *AutomatonManager
	logger *slog.Logger
}

// NewHandler creates a new Handler backed by the given AutomatonManager.
func NewHandler(mgr *AutomatonManager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{mgr: mgr, logger: logger.With("component", "http")}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Automaton lifecycle.
	mux.HandleFunc("GET /automata", h.handleList)
	mux.HandleFunc("POST /automata", h.handleRegister)
	mux.HandleFunc("GET /automata/{name}", h.handleGet)
	mux.HandleFunc("DELETE /automata/{name}", h.handleDelete)

	// Membership.
	mux.HandleFunc("POST /automata/{name}/match", h.handleMatch)

	// Rendering.
	mux.HandleFunc("GET /automata/{name}/table", h.handleTable)
	mux.HandleFunc("GET /automata/{name}/graph", h.handleGraph)
}

// --- Automaton Lifecycle ---

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	names := h.mgr.List()

	infos := make([]map[string]any, 0, len(names))
	for _, name := range names {
		e, err := h.mgr.Get(name)
		if err != nil {
			continue // deleted since List
		}
		infos = append(infos, map[string]any{
			"name":       e.Name,
			"seed":       e.Seed.String(),
			"created_at": e.CreatedAt,
			"nfa_states": e.NFA.Len(),
			"dfa_states": e.DFA.Len(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"automata": infos,
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Definition string `json:"definition"`
		Seed       string `json:"seed"`
	}
	if err := decodeJSON(w, r, h.mgr.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "automaton name is required")
		return
	}
	if strings.TrimSpace(req.Definition) == "" {
		writeError(w, http.StatusBadRequest, "definition is required")
		return
	}
	seed, err := subset.ParseSeedMode(req.Seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.mgr.Register(req.Name, req.Definition, seed)
	if err != nil {
		switch {
		case errors.Is(err, ErrAutomatonExists):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, store.ErrInvalidName), errors.Is(err, definition.ErrMalformed):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, subset.ErrStateLimitExceeded):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("register failed", "name", req.Name, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":     "created",
		"name":       e.Name,
		"nfa_states": e.NFA.Len(),
		"dfa_states": e.DFA.Len(),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.Info())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.mgr.Delete(name); err != nil {
		if errors.Is(err, ErrAutomatonNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
		"name":   name,
	})
}

// --- Membership ---

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req struct {
		Inputs []string `json:"inputs"`
	}
	if err := decodeJSON(w, r, h.mgr.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	verdicts, err := h.mgr.Match(r.Context(), name, req.Inputs)
	if err != nil {
		switch {
		case errors.Is(err, ErrAutomatonNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "match timed out")
		case errors.Is(err, context.Canceled):
			// client went away; nothing useful to send
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	accepted := 0
	for _, v := range verdicts {
		if v.Accepted {
			accepted++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":     name,
		"results":  verdicts,
		"total":    len(verdicts),
		"accepted": accepted,
	})
}

// --- Rendering ---

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	a, isNFA, ok := pickKind(w, r, e)
	if !ok {
		return
	}

	var b strings.Builder
	if err := render.WriteTable(&b, a, render.Options{Epsilon: isNFA}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeText(w, "text/plain; charset=utf-8", b.String())
}

func (h *Handler) handleGraph(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	a, _, ok := pickKind(w, r, e)
	if !ok {
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		writeText(w, "text/vnd.graphviz; charset=utf-8", render.ToDOT(a))
	case "mermaid":
		writeText(w, "text/plain; charset=utf-8", render.ToMermaid(a))
	default:
		writeError(w, http.StatusBadRequest, "unknown format "+format+" (want dot or mermaid)")
	}
}

// --- Helpers ---

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Entry, bool) {
	e, err := h.mgr.Get(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, ErrAutomatonNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return e, true
}

// pickKind selects the NFA or DFA from the "kind" query parameter; the DFA is
// the default.
func pickKind(w http.ResponseWriter, r *http.Request, e *Entry) (*automaton.Automaton, bool, bool) {
	switch kind := r.URL.Query().Get("kind"); kind {
	case "", "dfa":
		return e.DFA, false, true
	case "nfa":
		return e.NFA, true, true
	default:
		writeError(w, http.StatusBadRequest, "unknown kind "+kind+" (want nfa or dfa)")
		return nil, false, false
	}
}
