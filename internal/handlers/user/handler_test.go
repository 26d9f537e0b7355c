package user_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourbook/infras/otel/mocks"
	"tourbook/internal/domains/user/model/dto"
	serviceMocks "tourbook/internal/domains/user/service/mocks"
	"tourbook/internal/handlers/user"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*serviceMocks.MockUser, http.Handler) {
	t.Helper()

	svc := serviceMocks.NewMockUser(gomock.NewController(t))

	handler := user.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func TestHandler_GetUsers(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantSortBy string
	}{
		{name: "sort by name", query: "?sort_by=full_name", wantSortBy: "users.full_name"},
		{name: "password column is not sortable", query: "?sort_by=password", wantSortBy: "users.created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ any, params gDto.QueryParams, _ gDto.FilterGroup) (dto.GetUsersResponse, error) {
					assert.Equal(t, tt.wantSortBy, params.SortBy)

					return dto.GetUsersResponse{}, nil
				})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestHandler_Profile(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		body      string
		setupMock func(svc *serviceMocks.MockUser)
		wantCode  int
		wantMsg   string
	}{
		{
			name:   "get profile",
			method: http.MethodGet,
			setupMock: func(svc *serviceMocks.MockUser) {
				svc.EXPECT().GetProfile(gomock.Any()).Return(dto.ProfileResponse{}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "profile of a deleted user",
			method: http.MethodGet,
			setupMock: func(svc *serviceMocks.MockUser) {
				svc.EXPECT().GetProfile(gomock.Any()).Return(dto.ProfileResponse{}, failure.NotFound("user"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "update profile",
			method: http.MethodPut,
			body:   `{"full_name":"Ada Lovelace","country":"United Kingdom"}`,
			setupMock: func(svc *serviceMocks.MockUser) {
				svc.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Return(dto.UserResponse{}, nil)
			},
			wantCode: http.StatusOK,
			wantMsg:  "Profile updated successfully",
		},
		{
			name:      "update without name",
			method:    http.MethodPut,
			body:      `{"country":"United Kingdom"}`,
			setupMock: func(_ *serviceMocks.MockUser) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "delete account",
			method: http.MethodDelete,
			setupMock: func(svc *serviceMocks.MockUser) {
				svc.EXPECT().DeleteProfile(gomock.Any()).Return(nil)
			},
			wantCode: http.StatusOK,
			wantMsg:  "Account deleted successfully",
		},
		{
			name:   "delete fails",
			method: http.MethodDelete,
			setupMock: func(svc *serviceMocks.MockUser) {
				svc.EXPECT().DeleteProfile(gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(tt.method, "/users/profile", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
