package user_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nafaymotors/inventory/internal/apierror"
	"github.com/nafaymotors/inventory/internal/user"
)

func TestService_Register(t *testing.T) {
	type testCase struct {
		name       string
		params     user.RegisterParams
		setupMock  func(m *user.MockRepository)
		wantStatus int
		check      func(t *testing.T, u *user.User)
	}

	tests := []testCase{
		{
			name: "HashesPasswordAndNormalizesEmail",
			params: user.RegisterParams{
				Username:    " Aziz ",
				Email:       " Aziz@Example.COM ",
				Password:    "s3cret",
				PhoneNumber: " 0300-1234567 ",
			},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "aziz@example.com").Return(nil, nil)
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						u.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, u *user.User) {
				assert.Equal(t, "Aziz", u.Username)
				assert.Equal(t, "aziz@example.com", u.Email)
				assert.Equal(t, "0300-1234567", u.PhoneNumber)
				assert.NotEmpty(t, u.PasswordHash)
				assert.NotEmpty(t, u.PasswordSalt)
				assert.NotEqual(t, "s3cret", u.PasswordHash)
			},
		},
		{
			name:       "MissingEmail",
			params:     user.RegisterParams{Username: "aziz", Password: "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingPassword",
			params:     user.RegisterParams{Username: "aziz", Email: "aziz@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "DuplicateEmail",
			params: user.RegisterParams{Username: "aziz", Email: "aziz@example.com", Password: "s3cret"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					FindByEmail(gomock.Any(), "aziz@example.com").
					Return(&user.User{ID: uuid.New()}, nil)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo)
			got, err := svc.Register(context.Background(), tt.params)

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

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo)

	// Register through the service to get a real stored hash.
	var stored *user.User

	repo.EXPECT().FindByEmail(gomock.Any(), "aziz@example.com").Return(nil, nil)
	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			u.ID = uuid.New()
			stored = u
			return nil
		})

	_, err := svc.Register(context.Background(), user.RegisterParams{
		Username: "aziz",
		Email:    "aziz@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	t.Run("Success", func(t *testing.T) {
		repo.EXPECT().FindByEmail(gomock.Any(), "aziz@example.com").Return(stored, nil)

		got, err := svc.Login(context.Background(), " Aziz@Example.com ", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo.EXPECT().FindByEmail(gomock.Any(), "aziz@example.com").Return(stored, nil)

		_, err := svc.Login(context.Background(), "aziz@example.com", "wrong")
		require.Error(t, err)

		apiErr := apierror.From(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)

		_, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
		require.Error(t, err)

		// Same message as a wrong password, so the response does not reveal
		// whether the account exists.
		apiErr := apierror.From(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
	})
}
