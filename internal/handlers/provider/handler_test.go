package provider_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourbook/infras/otel/mocks"
	"tourbook/internal/domains/provider/model/dto"
	serviceMocks "tourbook/internal/domains/provider/service/mocks"
	"tourbook/internal/handlers/provider"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const providerID = "0b8c6c5e-6a0b-4f55-9d32-0f3f9e0d1a77"

func newRouter(t *testing.T) (*serviceMocks.MockProvider, http.Handler) {
	t.Helper()

	svc := serviceMocks.NewMockProvider(gomock.NewController(t))

	handler := provider.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func TestHandler_GetProviders(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		setupMock   func(svc *serviceMocks.MockProvider)
		wantCode    int
		wantSortBy  string
		wantSortDir string
	}{
		{
			name:        "allowed sort column",
			query:       "?sort_by=rating&sort_dir=asc",
			wantCode:    http.StatusOK,
			wantSortBy:  "service_providers.rating",
			wantSortDir: gDto.SortDirAsc,
		},
		{
			name:        "unknown sort column falls back to newest",
			query:       "?sort_by=password;drop",
			wantCode:    http.StatusOK,
			wantSortBy:  "service_providers.created_at",
			wantSortDir: gDto.SortDirDesc,
		},
		{
			name:      "unknown business type",
			query:     "?business_type=spaceport",
			setupMock: func(_ *serviceMocks.MockProvider) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)

			if tt.setupMock != nil {
				tt.setupMock(svc)
			} else {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, params gDto.QueryParams, _ gDto.FilterGroup) (dto.GetProvidersResponse, error) {
						assert.Equal(t, tt.wantSortBy, params.SortBy)
						assert.Equal(t, tt.wantSortDir, params.SortDir)

						return dto.GetProvidersResponse{}, nil
					})
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_RegisterProvider(t *testing.T) {
	body := `{"business_info":{"business_name":"Lagoon Tours","business_type":"tour_operator",` +
		`"description":"Boat trips around the lagoon"},"contact_info":{"phone":"+15551234567",` +
		`"email":"hello@lagoon.example","address":"1 Harbour Road","city":"Lisbon"}}`

	tests := []struct {
		name      string
		body      string
		setupMock func(svc *serviceMocks.MockProvider)
		wantCode  int
		wantMsg   string
	}{
		{
			name: "registered",
			body: body,
			setupMock: func(svc *serviceMocks.MockProvider) {
				svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(dto.ProviderResponse{ID: providerID}, nil)
			},
			wantCode: http.StatusCreated,
			wantMsg:  "Service provider registered successfully",
		},
		{
			name: "already a provider",
			body: body,
			setupMock: func(svc *serviceMocks.MockProvider) {
				svc.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(dto.ProviderResponse{}, failure.Conflict("User already has a provider profile"))
			},
			wantCode: http.StatusConflict,
			wantMsg:  "User already has a provider profile",
		},
		{
			name:      "malformed body",
			body:      `{"business_name":`,
			setupMock: func(_ *serviceMocks.MockProvider) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/providers", strings.NewReader(tt.body))
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

func TestHandler_UpdateProvider(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		setupMock func(svc *serviceMocks.MockProvider)
		wantCode  int
		wantMsg   string
	}{
		{
			name:   "id in path",
			target: "/providers/" + providerID,
			setupMock: func(svc *serviceMocks.MockProvider) {
				svc.EXPECT().UpdateStatus(gomock.Any(), providerID, gomock.Any()).Return(dto.ProviderResponse{ID: providerID}, nil)
			},
			wantCode: http.StatusOK,
			wantMsg:  "Provider updated successfully",
		},
		{
			name:   "id in query",
			target: "/providers?id=" + providerID,
			setupMock: func(svc *serviceMocks.MockProvider) {
				svc.EXPECT().UpdateStatus(gomock.Any(), providerID, gomock.Any()).Return(dto.ProviderResponse{ID: providerID}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "missing id",
			target:    "/providers",
			setupMock: func(_ *serviceMocks.MockProvider) {},
			wantCode:  http.StatusBadRequest,
			wantMsg:   "Provider ID is required",
		},
		{
			name:      "malformed id",
			target:    "/providers/not-a-uuid",
			setupMock: func(_ *serviceMocks.MockProvider) {},
			wantCode:  http.StatusBadRequest,
			wantMsg:   "Invalid provider ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, tt.target, strings.NewReader(`{"is_active":true}`))
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
