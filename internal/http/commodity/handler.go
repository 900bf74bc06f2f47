package commodity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billbook/internal/commodity"
	"github.com/MrJamesThe3rd/billbook/internal/http/payload"
	"github.com/MrJamesThe3rd/billbook/internal/http/respond"
	"github.com/MrJamesThe3rd/billbook/internal/ledger"
)

type Handler struct {
	svc *commodity.Service
}

func NewHandler(svc *commodity.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type commodityResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	SKU            string     `json:"sku,omitempty"`
	Unit           string     `json:"unit,omitempty"`
	UnitPrice      string     `json:"unit_price"`
	TaxRatePercent string     `json:"tax_rate_percent"`
	StockQuantity  string     `json:"stock_quantity"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *commodity.Commodity) commodityResponse {
	return commodityResponse{
		ID:             c.ID,
		Name:           c.Name,
		SKU:            c.SKU,
		Unit:           c.Unit,
		UnitPrice:      ledger.Format(c.UnitPrice),
		TaxRatePercent: c.TaxRatePercent.String(),
		StockQuantity:  c.StockQuantity.String(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type createCommodityRequest struct {
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Unit           string          `json:"unit"`
	UnitPrice      payload.Amount  `json:"unit_price"`
	TaxRatePercent *payload.Amount `json:"tax_rate_percent,omitempty"`
	StockQuantity  payload.Amount  `json:"stock_quantity"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCommodityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Create(r.Context(), commodity.CreateParams{
		Name:           req.Name,
		SKU:            req.SKU,
		Unit:           req.Unit,
		UnitPrice:      req.UnitPrice.Decimal,
		TaxRatePercent: req.TaxRatePercent.Ptr(),
		StockQuantity:  req.StockQuantity.Decimal,
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := commodity.ListFilter{}

	if s := r.URL.Query().Get("q"); s != "" {
		filter.Search = &s
	}

	commodities, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	resp := make([]commodityResponse, len(commodities))
	for i, c := range commodities {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

type updateCommodityRequest struct {
	Name           *string         `json:"name,omitempty"`
	SKU            *string         `json:"sku,omitempty"`
	Unit           *string         `json:"unit,omitempty"`
	UnitPrice      *payload.Amount `json:"unit_price,omitempty"`
	TaxRatePercent *payload.Amount `json:"tax_rate_percent,omitempty"`
	StockQuantity  *payload.Amount `json:"stock_quantity,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateCommodityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Update(r.Context(), id, commodity.UpdateParams{
		Name:           req.Name,
		SKU:            req.SKU,
		Unit:           req.Unit,
		UnitPrice:      req.UnitPrice.Ptr(),
		TaxRatePercent: req.TaxRatePercent.Ptr(),
		StockQuantity:  req.StockQuantity.Ptr(),
	})
	if err != nil {
		respond.Err(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Err(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
