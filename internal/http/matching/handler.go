package matching

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/billbook/internal/http/respond"
	"github.com/MrJamesThe3rd/billbook/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription       string `json:"raw_description"`
	PreferredDescription string `json:"preferred_description"`
	Category             string `json:"category"`
	Matched              bool   `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		respond.Error(w, http.StatusBadRequest, "raw_description query parameter is required")
		return
	}

	suggestion, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	resp := suggestResponse{RawDescription: rawDesc}
	if suggestion != nil {
		resp.PreferredDescription = suggestion.Description
		resp.Category = suggestion.Category
		resp.Matched = true
	}

	respond.JSON(w, http.StatusOK, resp)
}

type learnRequest struct {
	RawPattern           string `json:"raw_pattern"`
	PreferredDescription string `json:"preferred_description"`
	Category             string `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.svc.Learn(r.Context(), req.RawPattern, matching.Suggestion{
		Description: req.PreferredDescription,
		Category:    req.Category,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
