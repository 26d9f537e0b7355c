package tour_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"tourbook/infras/otel/mocks"
	"tourbook/internal/domains/tour/model/dto"
	serviceMocks "tourbook/internal/domains/tour/service/mocks"
	"tourbook/internal/handlers/tour"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const tourID = "0b0c6a4e-7c2e-4d8e-9a51-3f1c2d7e8a90"

func newRouter(t *testing.T) (*serviceMocks.MockTour, http.Handler) {
	t.Helper()

	svc := serviceMocks.NewMockTour(gomock.NewController(t))

	handler := tour.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func TestHandler_GetTours(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		setupMock func(svc *serviceMocks.MockTour)
		wantCode  int
	}{
		{
			name:  "sorted by price with filters",
			query: "?sort=price_asc&category=adventure&limit=100",
			setupMock: func(svc *serviceMocks.MockTour) {
				svc.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetToursResponse, error) {
						assert.Equal(t, "tours.price", params.SortBy)
						assert.Equal(t, gDto.SortDirAsc, params.SortDir)
						assert.Equal(t, 50, params.Limit)
						assert.Len(t, filter.Filters, 2)

						return dto.GetToursResponse{}, nil
					})
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "unknown sort key",
			query:     "?sort=cheapest",
			setupMock: func(_ *serviceMocks.MockTour) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "unsafe search",
			query:     "?search=%27%20OR%201%3D1",
			setupMock: func(_ *serviceMocks.MockTour) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_GetTour(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		setupMock func(svc *serviceMocks.MockTour)
		wantCode  int
	}{
		{
			name: "found",
			id:   tourID,
			setupMock: func(svc *serviceMocks.MockTour) {
				svc.EXPECT().Get(gomock.Any(), tourID).Return(dto.TourDetailResponse{}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "malformed id",
			id:        "tour-1",
			setupMock: func(_ *serviceMocks.MockTour) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "not found",
			id:   tourID,
			setupMock: func(svc *serviceMocks.MockTour) {
				svc.EXPECT().Get(gomock.Any(), tourID).Return(dto.TourDetailResponse{}, failure.NotFound("Tour not found"))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tours/"+tt.id, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_DeleteTour(t *testing.T) {
	svc, router := newRouter(t)
	svc.EXPECT().Delete(gomock.Any(), tourID).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tours/"+tourID, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tour deactivated successfully")
}

func TestHandler_UploadImage(t *testing.T) {
	multipartBody := func(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
		t.Helper()

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		header.Set("Content-Type", "image/png")

		part, err := writer.CreatePart(header)
		require.NoError(t, err)

		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		return body, writer.FormDataContentType()
	}

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	t.Run("uploaded", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().UploadImage(gomock.Any(), tourID, gomock.Any()).
			Return(dto.UploadImageResponse{URL: "https://cdn.example.com/tours/a.png"}, nil)

		body, contentType := multipartBody(t, "file", "a.png", png)
		req := httptest.NewRequest(http.MethodPost, "/tours/"+tourID+"/images", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "cdn.example.com")
	})

	t.Run("missing file field", func(t *testing.T) {
		_, router := newRouter(t)

		body, contentType := multipartBody(t, "other", "a.png", png)
		req := httptest.NewRequest(http.MethodPost, "/tours/"+tourID+"/images", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Image file is required")
	})

	t.Run("not multipart", func(t *testing.T) {
		_, router := newRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/tours/"+tourID+"/images", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_SeedTours(t *testing.T) {
	tests := []struct {
		name     string
		created  bool
		wantCode int
	}{
		{name: "seeded", created: true, wantCode: http.StatusCreated},
		{name: "skipped", created: false, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			svc.EXPECT().Seed(gomock.Any()).Return(dto.SeedResponse{}, tt.created, "done", nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/seed/tours", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
