package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tourbook/infras/otel"
	"tourbook/infras/postgres"
	"tourbook/internal/domains/provider/model"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/logger"
	gRepo "tourbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

const refreshRatingQuery = `
UPDATE service_providers SET
	rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE provider_id = service_providers.id), 0),
	reviews_count = (SELECT COUNT(*) FROM reviews WHERE provider_id = service_providers.id)
WHERE id = $1`

type Provider interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Provider) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Provider, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Provider, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	InsertServices(ctx context.Context, services []model.Service) error
	InsertAmenities(ctx context.Context, amenities []model.Amenity) error
	GetAmenities(ctx context.Context, providerID string) ([]model.Amenity, error)
	RefreshRating(ctx context.Context, providerID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Provider]
	services  gRepo.Repository[model.Service]
	amenities gRepo.Repository[model.Amenity]
	db        *postgres.Connection
	otel      otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Provider {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Provider](model.EntityName, model.TableName, model.FieldID, db, otel),
		services:   gRepo.NewRepository[model.Service](model.ServiceEntityName, model.ServiceTableName, model.FieldID, db, otel),
		amenities:  gRepo.NewRepository[model.Amenity](model.AmenityEntity, model.AmenityTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) InsertServices(ctx context.Context, services []model.Service) error {
	if len(services) == 0 {
		return nil
	}

	return r.services.InsertBulk(ctx, services) //nolint:wrapcheck
}

func (r *repositoryImpl) InsertAmenities(ctx context.Context, amenities []model.Amenity) error {
	if len(amenities) == 0 {
		return nil
	}

	return r.amenities.InsertBulk(ctx, amenities) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAmenities(ctx context.Context, providerID string) ([]model.Amenity, error) {
	filter := gDto.NewFilterGroup(gDto.Filter{
		Field:    model.FieldProviderID,
		Value:    providerID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.AmenityTableName,
	})

	return r.amenities.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}

// RefreshRating recomputes the provider's rating and review count from its reviews.
func (r *repositoryImpl) RefreshRating(ctx context.Context, providerID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".provider.RefreshRating")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, refreshRatingQuery)

	if _, err := r.db.Write.ExecContext(ctx, refreshRatingQuery, providerID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to refresh provider rating: %w", err)
	}

	return nil
}
