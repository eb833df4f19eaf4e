package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Kazumiii-arch/VortexChestShop/internal/application/registry"
	"github.com/Kazumiii-arch/VortexChestShop/internal/application/trade"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// headerPrincipal identifies the acting player on management and buy calls.
const headerPrincipal = "X-Principal"

type Handler struct {
	registry  *registry.Service
	processor *trade.Processor
	log       *zap.Logger
}

func NewHandler(reg *registry.Service, proc *trade.Processor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.L()
	}
	return &Handler{
		registry:  reg,
		processor: proc,
		log:       logger.With(zap.String("component", "http_server")),
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(h.log))

	r.Get("/healthz", h.handleHealth)

	r.Route("/shops", func(r chi.Router) {
		r.Post("/", h.handleCreateShop)
		r.Route("/{location}", func(r chi.Router) {
			r.Get("/", h.handleGetShop)
			r.Delete("/", h.handleRemoveShop)
			r.Post("/buy", h.handleBuy)
			r.Patch("/price", h.handleSetPrice)
			r.Patch("/quantity", h.handleSetQuantity)
			r.Patch("/item", h.handleSetItem)
			r.Patch("/display", h.handleSetDisplay)
		})
	})

	r.Get("/owners/{owner}/shops", h.handleOwnerShops)
	r.Get("/owners/{owner}/stats", h.handleOwnerStats)

	return r
}

type shopResponse struct {
	ID             string              `json:"id"`
	Owner          string              `json:"owner"`
	Location       string              `json:"location"`
	Item           shop.ItemDescriptor `json:"item"`
	Price          float64             `json:"price"`
	Quantity       int                 `json:"quantity"`
	Stock          int                 `json:"stock"`
	DisplayEnabled bool                `json:"display_enabled"`
}

func toShopResponse(s shop.Shop) shopResponse {
	return shopResponse{
		ID:             s.ID,
		Owner:          s.Owner,
		Location:       s.Location.String(),
		Item:           s.Item,
		Price:          s.Price,
		Quantity:       s.Quantity,
		Stock:          s.Stock,
		DisplayEnabled: s.DisplayEnabled,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCreateShop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner    string              `json:"owner"`
		Location string              `json:"location"`
		Item     shop.ItemDescriptor `json:"item"`
		Price    float64             `json:"price"`
		Quantity int                 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Owner == "" {
		writeError(w, http.StatusBadRequest, errors.New("owner is required"))
		return
	}
	location, err := shop.ParseLocationKey(req.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.registry.Create(r.Context(), req.Owner, location, req.Item, req.Price, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShopResponse(created))
}

func (h *Handler) handleGetShop(w http.ResponseWriter, r *http.Request) {
	location, err := locationParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	snapshot, ok := h.registry.SnapshotAt(r.Context(), location)
	if !ok {
		writeDomainError(w, shop.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toShopResponse(snapshot))
}

func (h *Handler) handleRemoveShop(w http.ResponseWriter, r *http.Request) {
	location, err := locationParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	actor := r.Header.Get(headerPrincipal)
	if actor == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing "+headerPrincipal+" header"))
		return
	}
	if err := h.registry.RemoveOwned(r.Context(), actor, location); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleBuy(w http.ResponseWriter, r *http.Request) {
	location, err := locationParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	buyer := r.Header.Get(headerPrincipal)
	if buyer == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing "+headerPrincipal+" header"))
		return
	}

	receipt, err := h.processor.Buy(r.Context(), buyer, location)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"buyer":        receipt.Buyer,
		"owner":        receipt.Owner,
		"location":     receipt.Location.String(),
		"item":         receipt.Item,
		"quantity":     receipt.Quantity,
		"total_cost":   receipt.TotalCost,
		"tax":          receipt.Tax,
		"owner_amount": receipt.OwnerAmount,
	})
}

func (h *Handler) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price float64 `json:"price"`
	}
	h.manage(w, r, &req, func(actor string, location shop.LocationKey) error {
		return h.registry.SetPrice(r.Context(), actor, location, req.Price)
	})
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	h.manage(w, r, &req, func(actor string, location shop.LocationKey) error {
		return h.registry.SetQuantity(r.Context(), actor, location, req.Quantity)
	})
}

func (h *Handler) handleSetItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item shop.ItemDescriptor `json:"item"`
	}
	h.manage(w, r, &req, func(actor string, location shop.LocationKey) error {
		return h.registry.SetItem(r.Context(), actor, location, req.Item)
	})
}

func (h *Handler) handleSetDisplay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	h.manage(w, r, &req, func(actor string, location shop.LocationKey) error {
		return h.registry.SetDisplay(r.Context(), actor, location, req.Enabled)
	})
}

func (h *Handler) handleOwnerShops(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	owned := h.registry.SnapshotsByOwner(r.Context(), owner)
	out := make([]shopResponse, 0, len(owned))
	for _, s := range owned {
		out = append(out, toShopResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleOwnerStats(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	stats := h.registry.Stats(r.Context(), owner)
	writeJSON(w, http.StatusOK, map[string]int{
		"shops":       stats.Shops,
		"total_stock": stats.TotalStock,
		"quota":       stats.Quota,
	})
}

// manage decodes the body, resolves the actor and location, and runs one
// management mutation with uniform error mapping.
func (h *Handler) manage(w http.ResponseWriter, r *http.Request, body any, run func(actor string, location shop.LocationKey) error) {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	actor := r.Header.Get(headerPrincipal)
	if actor == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing "+headerPrincipal+" header"))
		return
	}
	location, err := locationParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := run(actor, location); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func locationParam(r *http.Request) (shop.LocationKey, error) {
	return shop.ParseLocationKey(chi.URLParam(r, "location"))
}

func writeDomainError(w http.ResponseWriter, err error) {
	var comp *trade.CompensationError

	switch {
	case errors.As(err, &comp):
		writeError(w, http.StatusInternalServerError, err)
	case errors.Is(err, shop.ErrNotFound), errors.Is(err, trade.ErrShopNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, shop.ErrAlreadyExists),
		errors.Is(err, shop.ErrQuotaExceeded),
		errors.Is(err, trade.ErrOutOfStock),
		errors.Is(err, trade.ErrStockDiscrepancy):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, shop.ErrNotOwner), errors.Is(err, trade.ErrOwnPurchase):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, trade.ErrInsufficientFunds), errors.Is(err, trade.ErrWithdrawFailed):
		writeError(w, http.StatusPaymentRequired, err)
	case errors.Is(err, trade.ErrOwnerDepositFailed):
		writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, shop.ErrInvalidPrice),
		errors.Is(err, shop.ErrInvalidQuantity),
		errors.Is(err, shop.ErrInvalidItem),
		errors.Is(err, shop.ErrInvalidLocation):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
