package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"tourbook/infras/otel"
	"tourbook/infras/postgres"
	"tourbook/internal/domains/preference/model"
	"tourbook/shared/constant"
	gDto "tourbook/shared/dto"
	"tourbook/shared/logger"
	gRepo "tourbook/shared/repository"
)

type Preference interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Preference, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Upsert(ctx context.Context, model model.Preference) error
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Preference]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Preference {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Preference](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Upsert inserts the row or replaces the answers of the user's existing row.
func (r *repositoryImpl) Upsert(ctx context.Context, mod model.Preference) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".preference.Upsert")
	defer scope.End()

	keep := []string{model.FieldID, model.FieldUserID, constant.FieldCreatedAt, constant.FieldCreatedBy}

	placeholders := make([]string, 0, len(r.InsertColumns))
	updates := make([]string, 0, len(r.InsertColumns))

	for _, col := range r.InsertColumns {
		placeholders = append(placeholders, ":"+col)

		if !slices.Contains(keep, col) {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		model.TableName,
		strings.Join(r.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldUserID,
		strings.Join(updates, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := r.db.Write.NamedExecContext(ctx, query, mod); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	return nil
}
