package purchase

import (
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle stage of a purchased vehicle.
type Status string

const (
	StatusPurchased     Status = "purchased"
	StatusLoadRequested Status = "load_requested"
	StatusLoaded        Status = "loaded"
	StatusAvailable     Status = "available"
	StatusSold          Status = "sold"
	StatusReleased      Status = "released"
	StatusExpired       Status = "expired"
)

// Statuses is the closed set of persistable lifecycle values. It is a
// validity domain, not a transition graph: any valid status may be set from
// any other.
var Statuses = []Status{
	StatusPurchased,
	StatusLoadRequested,
	StatusLoaded,
	StatusAvailable,
	StatusSold,
	StatusReleased,
	StatusExpired,
}

// Valid reports whether s is one of the persistable status values.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}

	return false
}

// modelYearPattern matches the YYYY-MM model year format.
var modelYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidModelYear reports whether v is a well-formed YYYY-MM model year.
func ValidModelYear(v string) bool {
	return modelYearPattern.MatchString(v)
}

// Purchase represents one imported vehicle unit and its cost/lifecycle state.
type Purchase struct {
	ID            uuid.UUID
	PurchaseDate  time.Time
	AuctionNumber int64
	Maker         string
	ChassisNumber string
	Push          float64
	Tax           float64
	AuctionFee    float64
	Recycle       float64
	Risko         float64
	Total         float64 // derived, never supplied directly
	SoldPrice     *float64
	Auction       string
	Yard          string
	LoadDate      *time.Time
	ETA           *time.Time
	ModelYear     string // YYYY-MM, empty when unknown
	ExpiryDate    string // YYYY-MM, derived from ModelYear
	Status        Status

	CreatedBy     *uuid.UUID
	CreatedByName string
	UpdatedBy     *uuid.UUID
	UpdatedByName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecomputeDerived recalculates Total and ExpiryDate from the current field
// state. It is a pure function of the record and must run on every save,
// regardless of which fields changed.
func (p *Purchase) RecomputeDerived() {
	p.Total = p.Push + p.Tax + p.AuctionFee + p.Recycle + p.Risko
	p.ExpiryDate = ExpiryFromModelYear(p.ModelYear)
}

// ExpiryFromModelYear computes the customs expiry window for a YYYY-MM model
// year: ten years out, one month back, so January wraps to December of the
// ninth year. Returns "" when modelYear is empty or malformed.
func ExpiryFromModelYear(modelYear string) string {
	if modelYear == "" || !ValidModelYear(modelYear) {
		return ""
	}

	t, err := time.Parse("2006-01", modelYear)
	if err != nil {
		return ""
	}

	expiryYear := t.Year() + 10
	expiryMonth := int(t.Month()) - 1

	if expiryMonth < 1 {
		expiryMonth = 12
		expiryYear--
	}

	return time.Date(expiryYear, time.Month(expiryMonth), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// RemainingDays counts the days from today until the first day of the expiry
// month, inclusive of the start day. Returns nil when expiryDate is absent or
// malformed. Computed at read time, never persisted.
func RemainingDays(expiryDate string, now time.Time) *int {
	if expiryDate == "" {
		return nil
	}

	expiry, err := time.Parse("2006-01", expiryDate)
	if err != nil {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Ceil(expiry.Sub(today).Hours() / 24))

	return &days
}
