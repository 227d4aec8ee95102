package purchase

import (
	"time"

	"github.com/google/uuid"

	"github.com/nafaymotors/inventory/internal/purchase"
)

type purchaseResponse struct {
	ID            uuid.UUID       `json:"id"`
	PurchaseDate  string          `json:"purchaseDate"`
	AuctionNumber int64           `json:"auctionNumber"`
	Maker         string          `json:"maker"`
	ChassisNumber string          `json:"chassisNumber"`
	Push          float64         `json:"push"`
	Tax           float64         `json:"tax"`
	AuctionFee    float64         `json:"auctionFee"`
	Recycle       float64         `json:"recycle"`
	Risko         float64         `json:"risko"`
	Total         float64         `json:"total"`
	SoldPrice     *float64        `json:"soldPrice,omitempty"`
	Auction       string          `json:"auction"`
	Yard          string          `json:"yard"`
	LoadDate      *string         `json:"loadDate,omitempty"`
	ETA           *string         `json:"ETA,omitempty"`
	ModelYear     string          `json:"modelYear,omitempty"`
	ExpiryDate    string          `json:"expiryDate,omitempty"`
	Status        purchase.Status `json:"status"`
	CreatedBy     *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedByName string          `json:"createdByName,omitempty"`
	UpdatedBy     *uuid.UUID      `json:"updatedBy,omitempty"`
	UpdatedByName string          `json:"updatedByName,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// listItemResponse enriches a listed record with the read-time remaining-days
// computation. The field is always present: null means no expiry window.
type listItemResponse struct {
	purchaseResponse
	RemainingDays *int `json:"remainingDays"`
}

func toResponse(p *purchase.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:            p.ID,
		PurchaseDate:  p.PurchaseDate.Format(time.DateOnly),
		AuctionNumber: p.AuctionNumber,
		Maker:         p.Maker,
		ChassisNumber: p.ChassisNumber,
		Push:          p.Push,
		Tax:           p.Tax,
		AuctionFee:    p.AuctionFee,
		Recycle:       p.Recycle,
		Risko:         p.Risko,
		Total:         p.Total,
		SoldPrice:     p.SoldPrice,
		Auction:       p.Auction,
		Yard:          p.Yard,
		LoadDate:      formatDate(p.LoadDate),
		ETA:           formatDate(p.ETA),
		ModelYear:     p.ModelYear,
		ExpiryDate:    p.ExpiryDate,
		Status:        p.Status,
		CreatedBy:     p.CreatedBy,
		CreatedByName: p.CreatedByName,
		UpdatedBy:     p.UpdatedBy,
		UpdatedByName: p.UpdatedByName,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toListResponse(items []*purchase.Purchase, now time.Time) []listItemResponse {
	resp := make([]listItemResponse, len(items))
	for i, p := range items {
		resp[i] = listItemResponse{
			purchaseResponse: toResponse(p),
			RemainingDays:    purchase.RemainingDays(p.ExpiryDate, now),
		}
	}

	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(time.DateOnly)

	return &s
}
