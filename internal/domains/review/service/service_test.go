package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"tourbook/config"
	"tourbook/infras/otel/mocks"
	bookingMocks "tourbook/internal/domains/booking/mocks"
	bookingModel "tourbook/internal/domains/booking/model"
	providerMocks "tourbook/internal/domains/provider/mocks"
	recService "tourbook/internal/domains/recommendation/service"
	reviewMocks "tourbook/internal/domains/review/mocks"
	"tourbook/internal/domains/review/model"
	"tourbook/internal/domains/review/model/dto"
	"tourbook/internal/domains/review/service"
	tourMocks "tourbook/internal/domains/tour/mocks"
	"tourbook/shared/cache"
	cacheMocks "tourbook/shared/cache/mocks"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/failure"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo         *reviewMocks.MockReview
	bookingRepo  *bookingMocks.MockBooking
	tourRepo     *tourMocks.MockTour
	providerRepo *providerMocks.MockProvider
	svc          service.Review
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         reviewMocks.NewMockReview(ctrl),
		bookingRepo:  bookingMocks.NewMockBooking(ctrl),
		tourRepo:     tourMocks.NewMockTour(ctrl),
		providerRepo: providerMocks.NewMockProvider(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bookingRepo, f.tourRepo, f.providerRepo, cfg, mockCache, mocks.NewOtel())

	return f
}

func actorContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleTourist)
}

func completedBooking() bookingModel.Booking {
	provider := "provider-1"

	return bookingModel.Booking{
		ID:             "booking-1",
		UserID:         "user-1",
		TourID:         "tour-1",
		Status:         bookingModel.StatusCompleted,
		TourProviderID: &provider,
	}
}

func TestReviewService_Create(t *testing.T) {
	req := dto.CreateReviewRequest{
		BookingID: "booking-1",
		Rating:    5,
		Title:     "Wonderful",
		Comment:   "Our guide knew every corner of the fort.",
	}

	otherTour := "5b0c7c36-3f1b-4a52-9c38-8f9a1d2e6b10"
	bookedTour := "tour-1"
	otherProvider := "provider-2"

	tests := []struct {
		name      string
		modify    func(r *dto.CreateReviewRequest)
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
		wantErr   bool
	}{
		{
			name: "defaults ids from the booking and refreshes ratings",
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r model.Review) error {
					require.NotNil(t, r.TourID)
					require.NotNil(t, r.ProviderID)
					assert.Equal(t, "tour-1", *r.TourID)
					assert.Equal(t, "provider-1", *r.ProviderID)
					assert.True(t, r.IsVerified)

					return nil
				})
				f.tourRepo.EXPECT().RefreshRating(gomock.Any(), "tour-1").Return(nil)
				f.providerRepo.EXPECT().RefreshRating(gomock.Any(), "provider-1").Return(errors.New("ignored"))
			},
		},
		{
			name:   "matching tour id is accepted",
			modify: func(r *dto.CreateReviewRequest) { r.TourID = &bookedTour },
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r model.Review) error {
					assert.Equal(t, bookedTour, *r.TourID)

					return nil
				})
				f.tourRepo.EXPECT().RefreshRating(gomock.Any(), bookedTour).Return(nil)
				f.providerRepo.EXPECT().RefreshRating(gomock.Any(), "provider-1").Return(nil)
			},
		},
		{
			name:   "tour other than the booked one",
			modify: func(r *dto.CreateReviewRequest) { r.TourID = &otherTour },
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Review must target the booked tour and provider",
			wantErr:  true,
		},
		{
			name:   "provider other than the booked one",
			modify: func(r *dto.CreateReviewRequest) { r.ProviderID = &otherProvider },
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Review must target the booked tour and provider",
			wantErr:  true,
		},
		{
			name: "booking of another user",
			setupMock: func(f fixture) {
				booking := completedBooking()
				booking.UserID = "user-2"

				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Booking not found",
			wantErr:  true,
		},
		{
			name: "booking not completed",
			setupMock: func(f fixture) {
				booking := completedBooking()
				booking.Status = bookingModel.StatusConfirmed

				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Can only review completed bookings",
			wantErr:  true,
		},
		{
			name: "already reviewed",
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
			wantMsg:  "You have already reviewed this booking",
			wantErr:  true,
		},
		{
			name: "concurrent duplicate hits the unique index",
			setupMock: func(f fixture) {
				f.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f)

			in := req
			if tt.modify != nil {
				tt.modify(&in)
			}

			res, err := f.svc.Create(actorContext("user-1"), in)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, 5, res.Rating)
				assert.NotNil(t, res.Images)
			}
		})
	}
}

func TestReviewService_GetAll(t *testing.T) {
	f := setup(t)

	minRating := 4
	query := dto.ReviewQuery{TourID: "tour-1", RatingMin: &minRating, Verified: true}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Review, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "reviews.rating >= :rating_min")
			assert.Equal(t, true, args[model.FieldIsVerified])
			assert.Equal(t, "reviews.created_at", params.SortBy)

			return []model.Review{{ID: "review-1", Rating: 4}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, query.FilterGroup())

	require.NoError(t, err)
	assert.Len(t, res.Reviews, 1)
	assert.Equal(t, 1, res.Pagination.Pages)
}

func TestReviewService_Create_ClearsRankings(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := reviewMocks.NewMockReview(ctrl)
	bookingRepo := bookingMocks.NewMockBooking(ctrl)
	tourRepo := tourMocks.NewMockTour(ctrl)
	providerRepo := providerMocks.NewMockProvider(ctrl)

	cleared := make(chan string, 8)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prefix string) error {
		cleared <- prefix

		return nil
	}).AnyTimes()

	bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	tourRepo.EXPECT().RefreshRating(gomock.Any(), "tour-1").Return(nil)
	providerRepo.EXPECT().RefreshRating(gomock.Any(), "provider-1").Return(nil)

	svc := service.New(repo, bookingRepo, tourRepo, providerRepo, &config.Config{}, mockCache, mocks.NewOtel())

	_, err := svc.Create(actorContext("user-1"), dto.CreateReviewRequest{
		BookingID: "booking-1",
		Rating:    4,
		Title:     "Great day",
		Comment:   "Lovely walk along the ramparts at sunset.",
	})
	require.NoError(t, err)

	var prefixes []string

	for range 4 {
		select {
		case p := <-cleared:
			prefixes = append(prefixes, p)
		case <-time.After(time.Second):
			t.Fatal("cache invalidation did not run")
		}
	}

	assert.Contains(t, prefixes, recService.CachePrefix+constant.Asterix)
	assert.Contains(t, prefixes, "tour"+constant.Asterix)
}
