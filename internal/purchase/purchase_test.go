package purchase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nafaymotors/inventory/internal/purchase"
)

func TestRecomputeDerived_Total(t *testing.T) {
	tests := []struct {
		name      string
		p         purchase.Purchase
		wantTotal float64
	}{
		{
			name:      "AllComponents",
			p:         purchase.Purchase{Push: 100, Tax: 50, AuctionFee: 20, Recycle: 5, Risko: 3},
			wantTotal: 178,
		},
		{
			name:      "OptionalComponentsZero",
			p:         purchase.Purchase{Push: 100, Tax: 50, AuctionFee: 20},
			wantTotal: 170,
		},
		{
			name:      "AllZero",
			p:         purchase.Purchase{},
			wantTotal: 0,
		},
		{
			name:      "OverwritesStaleTotal",
			p:         purchase.Purchase{Push: 1, Tax: 1, AuctionFee: 1, Total: 999},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.p.RecomputeDerived()
			assert.Equal(t, tt.wantTotal, tt.p.Total)
		})
	}
}

func TestExpiryFromModelYear(t *testing.T) {
	tests := []struct {
		name      string
		modelYear string
		want      string
	}{
		{name: "MidYear", modelYear: "2020-06", want: "2030-05"},
		{name: "December", modelYear: "2015-12", want: "2025-11"},
		{name: "JanuaryWrapsToPreviousDecember", modelYear: "2020-01", want: "2029-12"},
		{name: "ZeroPadsMonth", modelYear: "2018-10", want: "2028-09"},
		{name: "Empty", modelYear: "", want: ""},
		{name: "Malformed", modelYear: "2020", want: ""},
		{name: "MalformedSeparator", modelYear: "2020/06", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, purchase.ExpiryFromModelYear(tt.modelYear))
		})
	}
}

func TestRecomputeDerived_Expiry(t *testing.T) {
	p := purchase.Purchase{Push: 1, Tax: 1, AuctionFee: 1, ModelYear: "2016-03"}
	p.RecomputeDerived()
	assert.Equal(t, "2026-02", p.ExpiryDate)

	// Clearing the model year clears the derived expiry on the next save.
	p.ModelYear = ""
	p.RecomputeDerived()
	assert.Empty(t, p.ExpiryDate)
}

func TestRemainingDays(t *testing.T) {
	now := time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		expiryDate string
		now        time.Time
		want       *int
	}{
		{name: "OneMonthOut", expiryDate: "2025-06", now: now, want: intPtr(31)},
		{name: "SameMonth", expiryDate: "2025-05", now: now, want: intPtr(0)},
		{name: "Past", expiryDate: "2025-04", now: now, want: intPtr(-30)},
		{name: "NoExpiry", expiryDate: "", now: now, want: nil},
		{name: "Malformed", expiryDate: "soon", now: now, want: nil},
		{
			name:       "TimeOfDayIgnored",
			expiryDate: "2025-06",
			now:        time.Date(2025, 5, 1, 23, 59, 59, 0, time.UTC),
			want:       intPtr(31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := purchase.RemainingDays(tt.expiryDate, tt.now)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range purchase.Statuses {
		assert.True(t, s.Valid(), "expected %q to be valid", s)
	}

	assert.False(t, purchase.Status("shipped").Valid())
	assert.False(t, purchase.Status("").Valid())
	assert.False(t, purchase.Status("PURCHASED").Valid())
}

func intPtr(v int) *int {
	return &v
}
