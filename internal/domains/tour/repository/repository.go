package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourbook/infras/otel"
	"tourbook/infras/postgres"
	"tourbook/internal/domains/tour/model"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/logger"
	gRepo "tourbook/shared/repository"
)

const refreshRatingQuery = `
UPDATE tours SET
	rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE tour_id = tours.id), 0),
	reviews_count = (SELECT COUNT(*) FROM reviews WHERE tour_id = tours.id)
WHERE id = $1`

type Tour interface {
	Insert(ctx context.Context, model model.Tour) error
	InsertBulk(ctx context.Context, models []model.Tour) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Tour, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Tour, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	RefreshRating(ctx context.Context, tourID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Tour]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Tour {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Tour](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// RefreshRating recomputes the tour's rating and review count from its reviews.
func (r *repositoryImpl) RefreshRating(ctx context.Context, tourID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tour.RefreshRating")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, refreshRatingQuery)

	if _, err := r.db.Write.ExecContext(ctx, refreshRatingQuery, tourID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to refresh tour rating: %w", err)
	}

	return nil
}
