package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"tourbook/config"
	"tourbook/infras/otel/mocks"
	prefMocks "tourbook/internal/domains/preference/mocks"
	"tourbook/internal/domains/preference/model"
	"tourbook/internal/domains/preference/model/dto"
	"tourbook/internal/domains/preference/service"
	"tourbook/shared/cache"
	cacheMocks "tourbook/shared/cache/mocks"
	"tourbook/shared/constant"
	"tourbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*prefMocks.MockPreference, service.Preference) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := prefMocks.NewMockPreference(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return mockRepo, service.New(mockRepo, cfg, mockCache, mocks.NewOtel())
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func TestPreferenceService_Get(t *testing.T) {
	mockRepo, svc := setup(t)

	tests := []struct {
		name      string
		setupMock func()
		wantNil   bool
		wantErr   bool
	}{
		{
			name: "preferences found",
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Preference{
					ID:                  "pref-1",
					UserID:              "test-user-id",
					BudgetRange:         model.BudgetMedium,
					PreferredActivities: []string{"cultural"},
				}, nil)
			},
		},
		{
			name: "no preferences yet",
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Preference{}, nil)
			},
			wantNil: true,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Preference{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(userContext())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, res)

				return
			}

			require.NotNil(t, res)
			assert.Equal(t, "pref-1", res.ID)
			assert.Equal(t, []string{}, res.DietaryRestrictions)
		})
	}
}

func TestPreferenceService_Upsert(t *testing.T) {
	mockRepo, svc := setup(t)

	req := dto.UpsertPreferenceRequest{
		BudgetRange:         model.BudgetLow,
		PreferredActivities: []string{"beach", "diving"},
		AccommodationType:   "hotel",
		GroupSize:           2,
		TravelDuration:      5,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful upsert",
			setupMock: func() {
				mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p model.Preference) error {
					assert.Equal(t, "test-user-id", p.UserID)
					assert.NotEmpty(t, p.ID)

					return nil
				})
			},
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Upsert(userContext(), req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, []string{"beach", "diving"}, res.PreferredActivities)
			}
		})
	}
}

func TestPreferenceService_Update(t *testing.T) {
	mockRepo, svc := setup(t)

	luxury := model.BudgetLuxury

	tests := []struct {
		name      string
		req       dto.UpdatePreferenceRequest
		setupMock func()
		wantCode  int
		wantErr   bool
	}{
		{
			name:      "empty request",
			req:       dto.UpdatePreferenceRequest{},
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
			wantErr:   true,
		},
		{
			name: "preferences not found",
			req:  dto.UpdatePreferenceRequest{BudgetRange: &luxury},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
			wantErr:  true,
		},
		{
			name: "successful update",
			req:  dto.UpdatePreferenceRequest{BudgetRange: &luxury},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, &luxury, fields[model.FieldBudgetRange])
						assert.NotContains(t, fields, model.FieldGroupSize)

						return nil
					})
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Preference{ID: "pref-1", BudgetRange: luxury}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Update(userContext(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, luxury, res.BudgetRange)
			}
		})
	}
}

func TestPreferenceService_Delete(t *testing.T) {
	mockRepo, svc := setup(t)

	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.Delete(userContext()))
}
