package purchase

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nafaymotors/inventory/internal/activity"
	"github.com/nafaymotors/inventory/internal/apierror"
	"github.com/nafaymotors/inventory/internal/http/middleware"
	"github.com/nafaymotors/inventory/internal/http/response"
	"github.com/nafaymotors/inventory/internal/purchase"
)

type Handler struct {
	svc      *purchase.Service
	activity *activity.Logger
}

func NewHandler(svc *purchase.Service, activityLog *activity.Logger) *Handler {
	return &Handler{svc: svc, activity: activityLog}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/create", h.create)
	r.Get("/list", h.list)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}/revert-to-purchased", h.revertToPurchased)
}

type createPurchaseRequest struct {
	PurchaseDate  string   `json:"purchaseDate"`
	AuctionNumber *int64   `json:"auctionNumber"`
	Maker         string   `json:"maker"`
	ChassisNumber string   `json:"chassisNumber"`
	Push          *float64 `json:"push"`
	Tax           *float64 `json:"tax"`
	AuctionFee    *float64 `json:"auctionFee"`
	Recycle       float64  `json:"recycle"`
	Risko         float64  `json:"risko"`
	Auction       string   `json:"auction"`
	Yard          string   `json:"yard"`
	LoadDate      string   `json:"loadDate"`
	ETA           string   `json:"ETA"`
	ModelYear     string   `json:"modelYear"`
	Status        string   `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("Invalid request body"))
		return
	}

	params := purchase.CreateParams{
		AuctionNumber: req.AuctionNumber,
		Maker:         req.Maker,
		ChassisNumber: req.ChassisNumber,
		Push:          req.Push,
		Tax:           req.Tax,
		AuctionFee:    req.AuctionFee,
		Recycle:       req.Recycle,
		Risko:         req.Risko,
		Auction:       req.Auction,
		Yard:          req.Yard,
		ModelYear:     req.ModelYear,
		Status:        purchase.Status(req.Status),
	}

	if req.PurchaseDate != "" {
		t, err := parseDate(req.PurchaseDate)
		if err != nil {
			response.Error(w, apierror.BadRequest("Invalid purchase date"))
			return
		}

		params.PurchaseDate = &t
	}

	if req.LoadDate != "" {
		t, err := parseDate(req.LoadDate)
		if err != nil {
			response.Error(w, apierror.BadRequest("Invalid load date"))
			return
		}

		params.LoadDate = &t
	}

	if req.ETA != "" {
		t, err := parseDate(req.ETA)
		if err != nil {
			response.Error(w, apierror.BadRequest("Invalid ETA date"))
			return
		}

		params.ETA = &t
	}

	p, err := h.svc.Create(r.Context(), params, actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	h.logActivity(r, "create", p, nil)

	response.Created(w, "Purchase created successfully", toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	q := purchase.NewListQuery(purchase.ListParams{
		Page:          qs.Get("page"),
		Limit:         qs.Get("limit"),
		Search:        qs.Get("search"),
		ChassisNumber: qs.Get("chassisNumber"),
		ModelYear:     qs.Get("modelYear"),
		Maker:         qs.Get("maker"),
		AuctionNumber: qs.Get("auctionNumber"),
		Status:        qs.Get("status"),
		SortBy:        qs.Get("sortBy"),
		SortOrder:     qs.Get("sortOrder"),
	})

	items, pagination, err := h.svc.List(r.Context(), q)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.SuccessMeta(w, "Purchases retrieved successfully",
		toListResponse(items, time.Now()),
		map[string]any{"pagination": pagination},
	)
}

type updatePurchaseRequest struct {
	PurchaseDate  *string  `json:"purchaseDate"`
	AuctionNumber *int64   `json:"auctionNumber"`
	Maker         *string  `json:"maker"`
	ChassisNumber *string  `json:"chassisNumber"`
	Push          *float64 `json:"push"`
	Tax           *float64 `json:"tax"`
	AuctionFee    *float64 `json:"auctionFee"`
	Recycle       *float64 `json:"recycle"`
	Risko         *float64 `json:"risko"`
	SoldPrice     *float64 `json:"soldPrice"`
	Auction       *string  `json:"auction"`
	Yard          *string  `json:"yard"`
	LoadDate      *string  `json:"loadDate"`
	ETA           *string  `json:"ETA"`
	ModelYear     *string  `json:"modelYear"`
	Status        *string  `json:"status"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req updatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("Invalid request body"))
		return
	}

	params := purchase.UpdateParams{
		AuctionNumber: req.AuctionNumber,
		Maker:         req.Maker,
		ChassisNumber: req.ChassisNumber,
		Auction:       req.Auction,
		Yard:          req.Yard,
		Push:          req.Push,
		Tax:           req.Tax,
		AuctionFee:    req.AuctionFee,
		Recycle:       req.Recycle,
		Risko:         req.Risko,
		SoldPrice:     req.SoldPrice,
		ModelYear:     req.ModelYear,
	}

	if req.PurchaseDate != nil {
		t, err := parseDate(*req.PurchaseDate)
		if err != nil {
			response.Error(w, apierror.BadRequest("Invalid purchase date"))
			return
		}

		params.PurchaseDate = &t
	}

	params.LoadDate, err = parseDateUpdate(req.LoadDate)
	if err != nil {
		response.Error(w, apierror.BadRequest("Invalid loadDate date"))
		return
	}

	params.ETA, err = parseDateUpdate(req.ETA)
	if err != nil {
		response.Error(w, apierror.BadRequest("Invalid ETA date"))
		return
	}

	if req.Status != nil {
		status := purchase.Status(*req.Status)
		params.Status = &status
	}

	p, err := h.svc.Update(r.Context(), id, params, actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	h.logActivity(r, "update", p, nil)

	response.Success(w, "Purchase updated successfully", toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	h.logActivity(r, "delete", nil, map[string]any{"id": id.String()})

	response.Success(w, "Record deleted successfully", nil)
}

type updateStatusRequest struct {
	Status purchase.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("Invalid request body"))
		return
	}

	p, err := h.svc.UpdateStatus(r.Context(), id, req.Status, actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	h.logActivity(r, "update_status", p, map[string]any{"status": string(p.Status)})

	response.Success(w, "Status updated to "+string(p.Status)+" successfully", toResponse(p))
}

func (h *Handler) revertToPurchased(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	p, err := h.svc.RevertToPurchased(r.Context(), id, actor(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	h.logActivity(r, "revert_to_purchased", p, nil)

	response.Success(w, "Vehicle reverted to purchased status", toResponse(p))
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apierror.BadRequest("Invalid resource ID format")
	}

	return id, nil
}

// parseDate accepts both date-only and RFC 3339 timestamps, since the
// frontend sends either depending on the picker.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, s)
}

// parseDateUpdate maps an optional date field of a partial update: absent
// leaves the stored value, empty clears it, anything else must parse.
func parseDateUpdate(s *string) (*purchase.DateUpdate, error) {
	if s == nil {
		return nil, nil
	}

	if *s == "" {
		return &purchase.DateUpdate{}, nil
	}

	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}

	return &purchase.DateUpdate{Time: &t}, nil
}

func actor(r *http.Request) *purchase.Actor {
	u := middleware.UserFrom(r.Context())
	if u == nil {
		return nil
	}

	return &purchase.Actor{ID: u.ID, Name: u.Username}
}

// logActivity records the action against the activity log when a user is
// attached. Best-effort: the logger swallows its own failures.
func (h *Handler) logActivity(r *http.Request, action string, p *purchase.Purchase, details map[string]any) {
	u := middleware.UserFrom(r.Context())
	if u == nil {
		return
	}

	resource := "purchase"
	if p != nil {
		if details == nil {
			details = map[string]any{}
		}

		details["id"] = p.ID.String()
		details["chassisNumber"] = p.ChassisNumber
	}

	h.activity.Log(activity.User{
		ID:    u.ID.String(),
		Name:  u.Username,
		Email: u.Email,
	}, action, resource, details)
}
