package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nafaymotors/inventory/internal/apierror"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=purchase
type Repository interface {
	CreatePurchase(ctx context.Context, p *Purchase) error
	GetPurchase(ctx context.Context, id uuid.UUID) (*Purchase, error)
	UpdatePurchase(ctx context.Context, p *Purchase) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, updatedBy *uuid.UUID, updatedByName string) (*Purchase, error)
	DeletePurchase(ctx context.Context, id uuid.UUID) error

	ListPurchases(ctx context.Context, q ListQuery) ([]*Purchase, int64, error)

	// FindByChassisNumber and FindByAuctionNumber return nil (no error) when
	// no record matches. A non-nil exclude skips that record, so an update
	// can keep its own value.
	FindByChassisNumber(ctx context.Context, chassisNumber string, exclude uuid.UUID) (*Purchase, error)
	FindByAuctionNumber(ctx context.Context, auctionNumber int64, exclude uuid.UUID) (*Purchase, error)

	Stats(ctx context.Context, now time.Time) (*Stats, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Actor identifies the authenticated user performing an operation, used for
// audit stamping. A nil actor never blocks an operation.
type Actor struct {
	ID   uuid.UUID
	Name string
}

type CreateParams struct {
	PurchaseDate  *time.Time
	AuctionNumber *int64
	Maker         string
	ChassisNumber string
	Push          *float64
	Tax           *float64
	AuctionFee    *float64
	Recycle       float64
	Risko         float64
	Auction       string
	Yard          string
	LoadDate      *time.Time
	ETA           *time.Time
	ModelYear     string
	Status        Status
}

func (s *Service) Create(ctx context.Context, params CreateParams, actor *Actor) (*Purchase, error) {
	maker := strings.TrimSpace(params.Maker)
	chassisNumber := strings.ToUpper(strings.TrimSpace(params.ChassisNumber))
	auction := strings.TrimSpace(params.Auction)

	if params.PurchaseDate == nil || params.AuctionNumber == nil ||
		maker == "" || chassisNumber == "" || auction == "" ||
		params.Push == nil || params.Tax == nil || params.AuctionFee == nil {
		return nil, apierror.BadRequest("All required fields must be provided")
	}

	if *params.AuctionNumber <= 0 {
		return nil, apierror.BadRequest("Auction number must be positive")
	}

	if *params.Push < 0 {
		return nil, apierror.BadRequest("Push cost must be non-negative")
	}

	if *params.Tax < 0 {
		return nil, apierror.BadRequest("Tax must be non-negative")
	}

	if *params.AuctionFee < 0 {
		return nil, apierror.BadRequest("Auction fee must be non-negative")
	}

	if params.Recycle < 0 {
		return nil, apierror.BadRequest("Recycle cost must be non-negative")
	}

	if params.Risko < 0 {
		return nil, apierror.BadRequest("Risk cost must be non-negative")
	}

	modelYear := strings.TrimSpace(params.ModelYear)
	if modelYear != "" && !ValidModelYear(modelYear) {
		return nil, apierror.BadRequest("Model year must be in YYYY-MM format")
	}

	status := params.Status
	if status == "" {
		status = StatusPurchased
	}

	if !status.Valid() {
		return nil, apierror.BadRequest("Invalid status")
	}

	if err := s.checkUniqueChassis(ctx, chassisNumber, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.checkUniqueAuction(ctx, *params.AuctionNumber, uuid.Nil); err != nil {
		return nil, err
	}

	p := &Purchase{
		PurchaseDate:  *params.PurchaseDate,
		AuctionNumber: *params.AuctionNumber,
		Maker:         maker,
		ChassisNumber: chassisNumber,
		Push:          *params.Push,
		Tax:           *params.Tax,
		AuctionFee:    *params.AuctionFee,
		Recycle:       params.Recycle,
		Risko:         params.Risko,
		Auction:       auction,
		Yard:          strings.TrimSpace(params.Yard),
		LoadDate:      params.LoadDate,
		ETA:           params.ETA,
		ModelYear:     modelYear,
		Status:        status,
	}

	if actor != nil {
		id := actor.ID
		p.CreatedBy = &id
		p.CreatedByName = actor.Name
	}

	p.RecomputeDerived()

	if err := s.repo.CreatePurchase(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// DateUpdate marks an optional date field as present in a partial update.
// A nil Time clears the stored value.
type DateUpdate struct {
	Time *time.Time
}

// UpdateParams is a sparse update: nil fields are left untouched, not
// cleared. ModelYear set to the empty string clears it (and, through
// recomputation, the expiry date).
type UpdateParams struct {
	PurchaseDate  *time.Time
	AuctionNumber *int64
	Maker         *string
	ChassisNumber *string
	Auction       *string
	Yard          *string
	Push          *float64
	Tax           *float64
	AuctionFee    *float64
	Recycle       *float64
	Risko         *float64
	SoldPrice     *float64
	LoadDate      *DateUpdate
	ETA           *DateUpdate
	ModelYear     *string
	Status        *Status
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams, actor *Actor) (*Purchase, error) {
	p, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	var chassisNumber string
	if params.ChassisNumber != nil {
		chassisNumber = strings.ToUpper(strings.TrimSpace(*params.ChassisNumber))
		if chassisNumber == "" {
			return nil, apierror.BadRequest("Chassis number must not be empty")
		}

		if err := s.checkUniqueChassis(ctx, chassisNumber, id); err != nil {
			return nil, err
		}
	}

	if params.AuctionNumber != nil {
		if *params.AuctionNumber <= 0 {
			return nil, apierror.BadRequest("auctionNumber must be a valid positive number")
		}

		if err := s.checkUniqueAuction(ctx, *params.AuctionNumber, id); err != nil {
			return nil, err
		}
	}

	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"push", params.Push},
		{"tax", params.Tax},
		{"auctionFee", params.AuctionFee},
		{"recycle", params.Recycle},
		{"risko", params.Risko},
		{"soldPrice", params.SoldPrice},
	} {
		if f.value != nil && *f.value < 0 {
			return nil, apierror.BadRequest(f.name + " must be a valid non-negative number")
		}
	}

	var modelYear string
	if params.ModelYear != nil {
		modelYear = strings.TrimSpace(*params.ModelYear)
		if modelYear != "" && !ValidModelYear(modelYear) {
			return nil, apierror.BadRequest("Model year must be in YYYY-MM format")
		}
	}

	if params.Status != nil && !params.Status.Valid() {
		return nil, apierror.BadRequest("Invalid status")
	}

	if params.Maker != nil {
		maker := strings.TrimSpace(*params.Maker)
		if maker == "" {
			return nil, apierror.BadRequest("Maker must not be empty")
		}

		p.Maker = maker
	}

	if params.Auction != nil {
		auction := strings.TrimSpace(*params.Auction)
		if auction == "" {
			return nil, apierror.BadRequest("Auction must not be empty")
		}

		p.Auction = auction
	}

	if params.PurchaseDate != nil {
		p.PurchaseDate = *params.PurchaseDate
	}

	if params.AuctionNumber != nil {
		p.AuctionNumber = *params.AuctionNumber
	}

	if params.ChassisNumber != nil {
		p.ChassisNumber = chassisNumber
	}

	if params.Yard != nil {
		p.Yard = strings.TrimSpace(*params.Yard)
	}

	if params.Push != nil {
		p.Push = *params.Push
	}

	if params.Tax != nil {
		p.Tax = *params.Tax
	}

	if params.AuctionFee != nil {
		p.AuctionFee = *params.AuctionFee
	}

	if params.Recycle != nil {
		p.Recycle = *params.Recycle
	}

	if params.Risko != nil {
		p.Risko = *params.Risko
	}

	if params.SoldPrice != nil {
		v := *params.SoldPrice
		p.SoldPrice = &v
	}

	if params.LoadDate != nil {
		p.LoadDate = params.LoadDate.Time
	}

	if params.ETA != nil {
		p.ETA = params.ETA.Time
	}

	if params.ModelYear != nil {
		p.ModelYear = modelYear
	}

	if params.Status != nil {
		p.Status = *params.Status
	}

	if actor != nil {
		actorID := actor.ID
		p.UpdatedBy = &actorID
		p.UpdatedByName = actor.Name
	}

	p.RecomputeDerived()

	if err := s.repo.UpdatePurchase(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Purchase, error) {
	return s.repo.GetPurchase(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePurchase(ctx, id)
}

// UpdateStatus sets the lifecycle status. The status set is a validity
// domain only: any valid value may be set regardless of the current one.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, actor *Actor) (*Purchase, error) {
	if !status.Valid() {
		return nil, apierror.BadRequest("Invalid status. Must be one of: " + statusList())
	}

	updatedBy, updatedByName := actorStamp(actor)

	return s.repo.UpdateStatus(ctx, id, status, updatedBy, updatedByName)
}

// RevertToPurchased forces the status back to purchased regardless of the
// current state. Deliberately ungated escape hatch.
func (s *Service) RevertToPurchased(ctx context.Context, id uuid.UUID, actor *Actor) (*Purchase, error) {
	updatedBy, updatedByName := actorStamp(actor)

	return s.repo.UpdateStatus(ctx, id, StatusPurchased, updatedBy, updatedByName)
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Purchase, Pagination, error) {
	items, total, err := s.repo.ListPurchases(ctx, q)
	if err != nil {
		return nil, Pagination{}, err
	}

	return items, NewPagination(q, total), nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx, time.Now())
}

func (s *Service) checkUniqueChassis(ctx context.Context, chassisNumber string, exclude uuid.UUID) error {
	existing, err := s.repo.FindByChassisNumber(ctx, chassisNumber, exclude)
	if err != nil {
		return err
	}

	if existing != nil {
		return apierror.Conflict("A vehicle with this chassis number already exists")
	}

	return nil
}

func (s *Service) checkUniqueAuction(ctx context.Context, auctionNumber int64, exclude uuid.UUID) error {
	existing, err := s.repo.FindByAuctionNumber(ctx, auctionNumber, exclude)
	if err != nil {
		return err
	}

	if existing != nil {
		return apierror.Conflict("A purchase with this auction number already exists")
	}

	return nil
}

func actorStamp(actor *Actor) (*uuid.UUID, string) {
	if actor == nil {
		return nil, ""
	}

	id := actor.ID

	return &id, actor.Name
}

func statusList() string {
	parts := make([]string, len(Statuses))
	for i, s := range Statuses {
		parts[i] = string(s)
	}

	return strings.Join(parts, ", ")
}
