package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nafaymotors/inventory/internal/http/response"
	"github.com/nafaymotors/inventory/internal/purchase"
)

type Handler struct {
	svc *purchase.Service
}

func NewHandler(svc *purchase.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
}

// statsResponse flattens the aggregation into the keys the dashboard charts
// read directly.
type statsResponse struct {
	Purchased     int64 `json:"purchased"`
	LoadRequested int64 `json:"load_requested"`
	Loaded        int64 `json:"loaded"`
	Available     int64 `json:"available"`
	Sold          int64 `json:"sold"`
	Released      int64 `json:"released"`
	Expired       int64 `json:"expired"`
	ExpiringSoon  int64 `json:"expiring_soon"`

	TotalPurchasedCost     float64 `json:"total_purchased_cost"`
	TotalLoadRequestedCost float64 `json:"total_load_requested_cost"`
	TotalLoadedCost        float64 `json:"total_loaded_cost"`
	TotalAvailableCost     float64 `json:"total_available_cost"`
	TotalSoldCost          float64 `json:"total_sold_cost"`
	TotalReleasedCost      float64 `json:"total_released_cost"`
	TotalExpiredCost       float64 `json:"total_expired_cost"`
	TotalExpiringSoonCost  float64 `json:"total_expiring_soon_cost"`

	TotalSoldRevenue float64 `json:"total_sold_revenue"`

	TotalVehicles   int64   `json:"total_vehicles"`
	TotalInvestment float64 `json:"total_investment"`
	TotalRevenue    float64 `json:"total_revenue"`
	EstimatedProfit float64 `json:"estimated_profit"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	resp := statsResponse{
		Purchased:     stats.CountByStatus[purchase.StatusPurchased],
		LoadRequested: stats.CountByStatus[purchase.StatusLoadRequested],
		Loaded:        stats.CountByStatus[purchase.StatusLoaded],
		Available:     stats.CountByStatus[purchase.StatusAvailable],
		Sold:          stats.CountByStatus[purchase.StatusSold],
		Released:      stats.CountByStatus[purchase.StatusReleased],
		Expired:       stats.CountByStatus[purchase.StatusExpired],
		ExpiringSoon:  stats.ExpiringSoonCount,

		TotalPurchasedCost:     stats.CostByStatus[purchase.StatusPurchased],
		TotalLoadRequestedCost: stats.CostByStatus[purchase.StatusLoadRequested],
		TotalLoadedCost:        stats.CostByStatus[purchase.StatusLoaded],
		TotalAvailableCost:     stats.CostByStatus[purchase.StatusAvailable],
		TotalSoldCost:          stats.CostByStatus[purchase.StatusSold],
		TotalReleasedCost:      stats.CostByStatus[purchase.StatusReleased],
		TotalExpiredCost:       stats.CostByStatus[purchase.StatusExpired],
		TotalExpiringSoonCost:  stats.ExpiringSoonCost,

		TotalSoldRevenue: stats.SoldRevenue,

		TotalVehicles:   stats.TotalVehicles,
		TotalInvestment: stats.TotalInvestment,
		TotalRevenue:    stats.TotalRevenue,
		EstimatedProfit: stats.TotalRevenue - stats.TotalInvestment,
	}

	response.Success(w, "Dashboard stats retrieved successfully", resp)
}
