package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/internal/domain/types"
)

// IdempotencyHeader lets a client retry a toggle without applying it twice.
const IdempotencyHeader = "Idempotency-Key"

const maxBodyBytes = 1 << 16

type countryRequest struct {
	Country string `json:"country"`
}

type toggleRequest struct {
	Slot string `json:"slot"`
	Key  string `json:"key"`
}

func (t *toggleRequest) validate() error {
	t.Slot = strings.TrimSpace(t.Slot)
	t.Key = strings.TrimSpace(t.Key)
	if t.Slot == "" {
		t.Slot = string(model.SlotSelectedSex)
	}
	if t.Key == "" {
		return errors.New("missing key")
	}
	return nil
}

type commandResponse struct {
	Status    string      `json:"status"`
	Duplicate bool        `json:"duplicate"`
	State     types.State `json:"state"`
}

// CommandsHandler turns requests into dashboard commands.
type CommandsHandler struct {
	deps Dependencies
}

// NewCommandsHandler creates a new commands handler.
func NewCommandsHandler(deps Dependencies) *CommandsHandler {
	return &CommandsHandler{deps: deps}
}

// HandleSetCountry handles POST /api/commands/country requests.
func (h *CommandsHandler) HandleSetCountry(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_country"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req countryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SetCountry(r.Context(), strings.TrimSpace(req.Country)); err != nil {
		writeClassified(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Status: "applied", State: h.deps.State(r.Context())})
}

// HandleToggle handles POST /api/commands/toggle requests.
func (h *CommandsHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req toggleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if key != "" && h.deps.SeenAndRecord(r.Context(), key) {
		writeJSON(w, http.StatusOK, commandResponse{Status: "duplicate", Duplicate: true, State: h.deps.State(r.Context())})
		return
	}

	if err := h.deps.Toggle(r.Context(), model.Slot(req.Slot), req.Key); err != nil {
		if key != "" {
			// Rollback the "seen" status since the toggle was not applied
			h.deps.Unrecord(r.Context(), key)
		}
		writeClassified(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Status: "applied", State: h.deps.State(r.Context())})
}
