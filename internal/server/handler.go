package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/craigtrim/persona-api/internal/app"
	"github.com/craigtrim/persona-api/internal/corpus"
	"github.com/craigtrim/persona-api/internal/domain"
	"github.com/craigtrim/persona-api/internal/profile"
	"github.com/craigtrim/persona-api/internal/service"
	"go.uber.org/zap"
)

// PersonalityHandler serves the /personality endpoints.
type PersonalityHandler struct {
	svc service.PersonaService
	log *zap.Logger
}

// DomainScore is one domain's score and its facet breakdown.
type DomainScore struct {
	Score  int            `json:"score"`
	Facets map[string]int `json:"facets"`
}

// PersonalityResponse is the body returned by both generation endpoints.
// Profile is only set by POST /personality/profile.
type PersonalityResponse struct {
	Seed      string                        `json:"seed"`
	Mode      string                        `json:"mode"`
	Coherence int                           `json:"coherence,omitempty"`
	Scores    map[domain.Domain]DomainScore `json:"scores"`
	Traits    []profile.Trait               `json:"traits"`
	Prompt    string                        `json:"prompt,omitempty"`
	Profile   string                        `json:"profile,omitempty"`
	Model     string                        `json:"model,omitempty"`
	HistoryID string                        `json:"history_id,omitempty"`
}

// ProfileRequest is the body of POST /personality/profile. Scores are keyed
// by domain name or letter; a non-zero Coherence selects random mode instead.
type ProfileRequest struct {
	Seed         string         `json:"seed"`
	Coherence    int            `json:"coherence"`
	Scores       map[string]int `json:"scores"`
	Length       int            `json:"length"`
	Instructions int            `json:"instructions"`
}

// Random handles GET /personality/random. It samples a personality and
// returns the synthesis prompt without calling the LLM.
func (h *PersonalityHandler) Random(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.NewRandomRequest(domain.CoherenceCoherent)
	req.Seed = q.Get("seed")
	req.DryRun = true

	if v := q.Get("coherence"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "coherence must be an integer")
			return
		}
		req.Coherence = domain.Coherence(c)
	}
	if v := q.Get("length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "length must be an integer")
			return
		}
		req.Length = n
	}

	resp, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonalityResponse(resp))
}

// Profile handles POST /personality/profile.
func (h *PersonalityHandler) Profile(w http.ResponseWriter, r *http.Request) {
	var body ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := app.NewRandomRequest(domain.Coherence(body.Coherence))
	if len(body.Scores) > 0 {
		scores := make(map[domain.Domain]int, len(body.Scores))
		for key, s := range body.Scores {
			d, ok := parseDomainKey(key)
			if !ok {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown domain %q", key))
				return
			}
			scores[d] = s
		}
		req.Scores = scores
	}
	req.Seed = body.Seed
	req.Length = body.Length
	if body.Instructions > 0 {
		req.Instructions = body.Instructions
	}

	resp, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonalityResponse(resp))
}

func (h *PersonalityHandler) fail(w http.ResponseWriter, err error) {
	var reqErr *app.RequestError
	switch {
	case errors.As(err, &reqErr) && reqErr.Code == app.ErrNoMatch:
		writeError(w, http.StatusNotFound, reqErr.Message)
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadRequest, reqErr.Message)
	case errors.Is(err, profile.ErrExternalService):
		h.log.Warn("profile synthesis failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, corpus.ErrDataIntegrity):
		h.log.Error("corpus integrity error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "corpus data is corrupt")
	default:
		h.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseDomainKey(key string) (domain.Domain, bool) {
	if d, ok := domain.ParseLetter(key); ok {
		return d, true
	}
	return domain.ParseDomain(key)
}

func toPersonalityResponse(resp *app.GenerateResponse) PersonalityResponse {
	out := PersonalityResponse{
		Seed:      resp.Seed,
		Mode:      resp.Mode,
		Coherence: int(resp.Coherence),
		Scores:    make(map[domain.Domain]DomainScore, len(resp.Facets)),
		Traits:    resp.Traits,
		Prompt:    resp.Prompt,
		Profile:   resp.Profile,
		Model:     resp.Model,
		HistoryID: resp.HistoryID,
	}
	if out.Traits == nil {
		out.Traits = []profile.Trait{}
	}
	for d, t := range resp.Facets {
		names, _ := d.Facets()
		out.Scores[d] = DomainScore{
			Score:  resp.Scores[d],
			Facets: map[string]int{names[0]: t[0], names[1]: t[1], names[2]: t[2]},
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
