package api

import (
	"errors"
	"net/http"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/seed"
)

// =============================================================================
// SCENARIO HANDLERS - mounted only when server.enable_scenarios is set
// =============================================================================

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	all := seed.Scenarios()
	dtos := make([]ScenarioDTO, len(all))
	for i, s := range all {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario wipes the store and loads the named scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.Seeds.Load(r.Context(), req.ScenarioID); err != nil {
		var nf *generic.NotFoundError
		if errors.As(err, &nf) && nf.Kind == "scenario" {
			writeBadRequest(w, "unknown scenario: "+req.ScenarioID)
			return
		}
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}
