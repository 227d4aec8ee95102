package purchase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nafaymotors/inventory/internal/apierror"
	"github.com/nafaymotors/inventory/internal/purchase"
)

func ptr[T any](v T) *T {
	return &v
}

func validCreateParams() purchase.CreateParams {
	return purchase.CreateParams{
		PurchaseDate:  ptr(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
		AuctionNumber: ptr(int64(4521)),
		Maker:         " Toyota ",
		ChassisNumber: " jt7251e-102030 ",
		Push:          ptr(100.0),
		Tax:           ptr(50.0),
		AuctionFee:    ptr(20.0),
		Recycle:       5,
		Risko:         3,
		Auction:       "USS Tokyo",
		Yard:          " A-12 ",
		ModelYear:     "2020-01",
	}
}

func expectNoDuplicates(m *purchase.MockRepository) {
	m.EXPECT().
		FindByChassisNumber(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()
	m.EXPECT().
		FindByAuctionNumber(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name       string
		params     func() purchase.CreateParams
		actor      *purchase.Actor
		setupMock  func(m *purchase.MockRepository)
		wantStatus int // expected HTTP status of the returned error, 0 for success
		check      func(t *testing.T, p *purchase.Purchase)
	}

	tests := []testCase{
		{
			name:   "ComputesDerivedFieldsAndNormalizes",
			params: validCreateParams,
			setupMock: func(m *purchase.MockRepository) {
				expectNoDuplicates(m)
				m.EXPECT().
					CreatePurchase(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *purchase.Purchase) error {
						p.ID = uuid.New()
						p.CreatedAt = time.Now()
						p.UpdatedAt = p.CreatedAt
						return nil
					})
			},
			check: func(t *testing.T, p *purchase.Purchase) {
				assert.Equal(t, 178.0, p.Total)
				assert.Equal(t, "2029-12", p.ExpiryDate)
				assert.Equal(t, "JT7251E-102030", p.ChassisNumber)
				assert.Equal(t, "Toyota", p.Maker)
				assert.Equal(t, "A-12", p.Yard)
				assert.Equal(t, purchase.StatusPurchased, p.Status)
				assert.Nil(t, p.CreatedBy)
			},
		},
		{
			name:   "StampsCreator",
			params: validCreateParams,
			actor:  &purchase.Actor{ID: uuid.MustParse("6e7cdd66-6e63-44a8-bb47-13587fd5ca25"), Name: "aziz"},
			setupMock: func(m *purchase.MockRepository) {
				expectNoDuplicates(m)
				m.EXPECT().CreatePurchase(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, p *purchase.Purchase) {
				require.NotNil(t, p.CreatedBy)
				assert.Equal(t, "6e7cdd66-6e63-44a8-bb47-13587fd5ca25", p.CreatedBy.String())
				assert.Equal(t, "aziz", p.CreatedByName)
			},
		},
		{
			name: "MissingRequiredField",
			params: func() purchase.CreateParams {
				p := validCreateParams()
				p.Push = nil
				return p
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "BlankMaker",
			params: func() purchase.CreateParams {
				p := validCreateParams()
				p.Maker = "   "
				return p
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "NonPositiveAuctionNumber",
			params: func() purchase.CreateParams {
				p := validCreateParams()
				p.AuctionNumber = ptr(int64(0))
				return p
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "NegativeCost",
			params: func() purchase.CreateParams {
				p := validCreateParams()
				p.Tax = ptr(-1.0)
				return p
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "NegativeOptionalCost",
			params: func() purchase.CreateParams {
				p := validCreateParams()
				p.Risko = -0.5
				return p
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "MalformedModelYear",
			params: func() purchase.CreateParams {
				p := validCreateParams()
				p.ModelYear = "2020-1"
				return p
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "UnknownStatus",
			params: func() purchase.CreateParams {
				p := validCreateParams()
				p.Status = "shipped"
				return p
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "DuplicateChassisNumber",
			params: validCreateParams,
			setupMock: func(m *purchase.MockRepository) {
				m.EXPECT().
					FindByChassisNumber(gomock.Any(), "JT7251E-102030", uuid.Nil).
					Return(&purchase.Purchase{ID: uuid.New()}, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "DuplicateAuctionNumber",
			params: validCreateParams,
			setupMock: func(m *purchase.MockRepository) {
				m.EXPECT().
					FindByChassisNumber(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
				m.EXPECT().
					FindByAuctionNumber(gomock.Any(), int64(4521), uuid.Nil).
					Return(&purchase.Purchase{ID: uuid.New()}, nil)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := purchase.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := purchase.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params(), tt.actor)

			if tt.wantStatus != 0 {
				require.Error(t, err)
				apiErr := apierror.From(err)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func existingPurchase(id uuid.UUID) *purchase.Purchase {
	p := &purchase.Purchase{
		ID:            id,
		PurchaseDate:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		AuctionNumber: 4521,
		Maker:         "Toyota",
		ChassisNumber: "JT7251E-102030",
		Push:          100,
		Tax:           50,
		AuctionFee:    20,
		Auction:       "USS Tokyo",
		ModelYear:     "2020-06",
		Status:        purchase.StatusPurchased,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
	p.RecomputeDerived()

	return p
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name       string
		params     purchase.UpdateParams
		actor      *purchase.Actor
		setupMock  func(m *purchase.MockRepository)
		wantStatus int
		check      func(t *testing.T, p *purchase.Purchase)
	}

	expectGetAndUpdate := func(m *purchase.MockRepository) {
		m.EXPECT().GetPurchase(gomock.Any(), id).Return(existingPurchase(id), nil)
		m.EXPECT().UpdatePurchase(gomock.Any(), gomock.Any()).Return(nil)
	}

	tests := []testCase{
		{
			name:   "PartialUpdateRecomputesTotal",
			params: purchase.UpdateParams{Push: ptr(200.0)},
			setupMock: func(m *purchase.MockRepository) {
				expectGetAndUpdate(m)
			},
			check: func(t *testing.T, p *purchase.Purchase) {
				assert.Equal(t, 200.0, p.Push)
				assert.Equal(t, 50.0, p.Tax)
				assert.Equal(t, 20.0, p.AuctionFee)
				assert.Equal(t, 270.0, p.Total)
				// Untouched model year still reproduces the same expiry.
				assert.Equal(t, "2030-05", p.ExpiryDate)
			},
		},
		{
			name:   "OwnChassisNumberUnchanged",
			params: purchase.UpdateParams{ChassisNumber: ptr("jt7251e-102030")},
			setupMock: func(m *purchase.MockRepository) {
				m.EXPECT().GetPurchase(gomock.Any(), id).Return(existingPurchase(id), nil)
				// The duplicate search excludes the record itself, so
				// keeping the current value is not a conflict.
				m.EXPECT().
					FindByChassisNumber(gomock.Any(), "JT7251E-102030", id).
					Return(nil, nil)
				m.EXPECT().UpdatePurchase(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, p *purchase.Purchase) {
				assert.Equal(t, "JT7251E-102030", p.ChassisNumber)
			},
		},
		{
			name:   "ConflictingAuctionNumber",
			params: purchase.UpdateParams{AuctionNumber: ptr(int64(9000))},
			setupMock: func(m *purchase.MockRepository) {
				m.EXPECT().GetPurchase(gomock.Any(), id).Return(existingPurchase(id), nil)
				m.EXPECT().
					FindByAuctionNumber(gomock.Any(), int64(9000), id).
					Return(&purchase.Purchase{ID: uuid.New()}, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "ClearingModelYearClearsExpiry",
			params: purchase.UpdateParams{ModelYear: ptr("")},
			setupMock: func(m *purchase.MockRepository) {
				expectGetAndUpdate(m)
			},
			check: func(t *testing.T, p *purchase.Purchase) {
				assert.Empty(t, p.ModelYear)
				assert.Empty(t, p.ExpiryDate)
			},
		},
		{
			name:   "ClearingLoadDate",
			params: purchase.UpdateParams{LoadDate: &purchase.DateUpdate{}},
			setupMock: func(m *purchase.MockRepository) {
				m.EXPECT().GetPurchase(gomock.Any(), id).DoAndReturn(func(context.Context, uuid.UUID) (*purchase.Purchase, error) {
					p := existingPurchase(id)
					p.LoadDate = ptr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
					return p, nil
				})
				m.EXPECT().UpdatePurchase(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, p *purchase.Purchase) {
				assert.Nil(t, p.LoadDate)
			},
		},
		{
			name:       "NegativeSoldPrice",
			params:     purchase.UpdateParams{SoldPrice: ptr(-100.0)},
			setupMock:  func(m *purchase.MockRepository) { m.EXPECT().GetPurchase(gomock.Any(), id).Return(existingPurchase(id), nil) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "InvalidStatus",
			params:     purchase.UpdateParams{Status: ptr(purchase.Status("scrapped"))},
			setupMock:  func(m *purchase.MockRepository) { m.EXPECT().GetPurchase(gomock.Any(), id).Return(existingPurchase(id), nil) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedModelYear",
			params:     purchase.UpdateParams{ModelYear: ptr("06-2020")},
			setupMock:  func(m *purchase.MockRepository) { m.EXPECT().GetPurchase(gomock.Any(), id).Return(existingPurchase(id), nil) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "StampsUpdater",
			params: purchase.UpdateParams{Yard: ptr("B-3")},
			actor:  &purchase.Actor{ID: uuid.MustParse("0b271df3-65f0-4a32-b5cf-57fb8ce03fd2"), Name: "aziz"},
			setupMock: func(m *purchase.MockRepository) {
				expectGetAndUpdate(m)
			},
			check: func(t *testing.T, p *purchase.Purchase) {
				require.NotNil(t, p.UpdatedBy)
				assert.Equal(t, "0b271df3-65f0-4a32-b5cf-57fb8ce03fd2", p.UpdatedBy.String())
				assert.Equal(t, "aziz", p.UpdatedByName)
				assert.Equal(t, "B-3", p.Yard)
			},
		},
		{
			name:   "NotFound",
			params: purchase.UpdateParams{Push: ptr(1.0)},
			setupMock: func(m *purchase.MockRepository) {
				m.EXPECT().GetPurchase(gomock.Any(), id).Return(nil, apierror.NotFound("Purchase not found"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := purchase.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := purchase.NewService(repo)
			got, err := svc.Update(context.Background(), id, tt.params, tt.actor)

			if tt.wantStatus != 0 {
				require.Error(t, err)
				apiErr := apierror.From(err)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.Status)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := purchase.NewService(purchase.NewMockRepository(ctrl))

		_, err := svc.UpdateStatus(context.Background(), id, purchase.Status("on_fire"), nil)
		require.Error(t, err)

		apiErr := apierror.From(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("SetsValidStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := purchase.NewMockRepository(ctrl)
		repo.EXPECT().
			UpdateStatus(gomock.Any(), id, purchase.StatusSold, nil, "").
			Return(&purchase.Purchase{ID: id, Status: purchase.StatusSold}, nil)

		svc := purchase.NewService(repo)

		got, err := svc.UpdateStatus(context.Background(), id, purchase.StatusSold, nil)
		require.NoError(t, err)
		assert.Equal(t, purchase.StatusSold, got.Status)
	})

	t.Run("StampsUpdater", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		actorID := uuid.New()

		repo := purchase.NewMockRepository(ctrl)
		repo.EXPECT().
			UpdateStatus(gomock.Any(), id, purchase.StatusLoaded, gomock.Any(), "aziz").
			DoAndReturn(func(_ context.Context, _ uuid.UUID, status purchase.Status, updatedBy *uuid.UUID, _ string) (*purchase.Purchase, error) {
				require.NotNil(t, updatedBy)
				assert.Equal(t, actorID, *updatedBy)
				return &purchase.Purchase{ID: id, Status: status}, nil
			})

		svc := purchase.NewService(repo)

		_, err := svc.UpdateStatus(context.Background(), id, purchase.StatusLoaded, &purchase.Actor{ID: actorID, Name: "aziz"})
		require.NoError(t, err)
	})
}

func TestService_RevertToPurchased(t *testing.T) {
	// The revert is an ungated escape hatch: whatever the current status,
	// the repository is told to set purchased.
	for _, from := range []purchase.Status{purchase.StatusSold, purchase.StatusExpired, purchase.StatusPurchased} {
		t.Run(string(from), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()

			repo := purchase.NewMockRepository(ctrl)
			repo.EXPECT().
				UpdateStatus(gomock.Any(), id, purchase.StatusPurchased, nil, "").
				Return(&purchase.Purchase{ID: id, Status: purchase.StatusPurchased}, nil)

			svc := purchase.NewService(repo)

			got, err := svc.RevertToPurchased(context.Background(), id, nil)
			require.NoError(t, err)
			assert.Equal(t, purchase.StatusPurchased, got.Status)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	q := purchase.NewListQuery(purchase.ListParams{Page: "2", Limit: "10", Status: "sold"})

	repo := purchase.NewMockRepository(ctrl)
	repo.EXPECT().
		ListPurchases(gomock.Any(), q).
		Return([]*purchase.Purchase{{ID: uuid.New()}, {ID: uuid.New()}}, int64(25), nil)

	svc := purchase.NewService(repo)

	items, pagination, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, purchase.Pagination{
		CurrentPage: 2,
		TotalPages:  3,
		TotalItems:  25,
		HasNext:     true,
		HasPrev:     true,
	}, pagination)
}
