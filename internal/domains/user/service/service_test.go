package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"tourbook/config"
	"tourbook/infras/otel/mocks"
	bookingMocks "tourbook/internal/domains/booking/mocks"
	bookingModel "tourbook/internal/domains/booking/model"
	prefMocks "tourbook/internal/domains/preference/mocks"
	prefModel "tourbook/internal/domains/preference/model"
	providerMocks "tourbook/internal/domains/provider/mocks"
	providerModel "tourbook/internal/domains/provider/model"
	userMocks "tourbook/internal/domains/user/mocks"
	"tourbook/internal/domains/user/model"
	"tourbook/internal/domains/user/model/dto"
	"tourbook/internal/domains/user/service"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo         *userMocks.MockUser
	prefRepo     *prefMocks.MockPreference
	providerRepo *providerMocks.MockProvider
	bookingRepo  *bookingMocks.MockBooking
	svc          service.User
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         userMocks.NewMockUser(ctrl),
		prefRepo:     prefMocks.NewMockPreference(ctrl),
		providerRepo: providerMocks.NewMockProvider(ctrl),
		bookingRepo:  bookingMocks.NewMockBooking(ctrl),
	}

	f.svc = service.New(f.repo, f.prefRepo, f.providerRepo, f.bookingRepo, &config.Config{}, mocks.NewOtel())

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func TestUserService_GetAll(t *testing.T) {
	f := setup(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.User{
		{ID: "u-1", Email: "a@example.com", Role: constant.RoleTourist},
		{ID: "u-2", Email: "b@example.com", Role: constant.RoleTourist},
		{ID: "u-3", Email: "c@example.com", Role: constant.RoleAdmin},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 50}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Len(t, res.Users, 3)
	assert.Equal(t, 3, res.Pagination.Total)
	assert.False(t, res.Pagination.HasNext)
}

func TestUserService_GetProfile(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		check     func(t *testing.T, res dto.ProfileResponse)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "profile with preferences provider and stats",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "test-user-id", FullName: "Nimal"}, nil)
				f.prefRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(prefModel.Preference{ID: "pref-1"}, nil)
				f.providerRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{ID: "prov-1"}, nil)
				f.bookingRepo.EXPECT().Stats(gomock.Any(), "test-user-id").Return(bookingModel.Stats{
					TotalBookings:     4,
					ConfirmedBookings: 1,
					CompletedBookings: 2,
					TotalSpent:        53500,
				}, nil)
			},
			check: func(t *testing.T, res dto.ProfileResponse) {
				t.Helper()

				assert.Equal(t, "Nimal", res.Profile.FullName)
				require.NotNil(t, res.Preferences)
				require.NotNil(t, res.Provider)
				assert.Equal(t, 4, res.Stats.TotalBookings)
				assert.InDelta(t, 53500, res.Stats.TotalSpent, 0.001)
			},
		},
		{
			name: "profile without preferences or provider",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "test-user-id"}, nil)
				f.prefRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(prefModel.Preference{}, nil)
				f.providerRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{}, nil)
				f.bookingRepo.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(bookingModel.Stats{}, nil)
			},
			check: func(t *testing.T, res dto.ProfileResponse) {
				t.Helper()

				assert.Nil(t, res.Preferences)
				assert.Nil(t, res.Provider)
			},
		},
		{
			name: "user missing",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
			wantErr:  true,
		},
		{
			name: "stats error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "test-user-id"}, nil)
				f.prefRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(prefModel.Preference{}, nil)
				f.providerRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{}, nil)
				f.bookingRepo.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(bookingModel.Stats{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			res, err := f.svc.GetProfile(userContext())

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := setup(t)

	name := "Nimal Perera"

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, &name, fields[model.FieldFullName])
			assert.NotContains(t, fields, model.FieldPhone)
			assert.Equal(t, "test-user-id", fields[constant.FieldModifiedBy])

			return nil
		})
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "test-user-id", FullName: name}, nil)

	res, err := f.svc.UpdateProfile(userContext(), dto.UpdateProfileRequest{FullName: &name})

	require.NoError(t, err)
	assert.Equal(t, name, res.FullName)
}

func TestUserService_DeleteProfile(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "active bookings block deletion",
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
			wantErr:  true,
		},
		{
			name: "successful deletion",
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			err := f.svc.DeleteProfile(userContext())

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
