package repository

//go:generate go run go.uber.org/mock/mockgen -source=./transactor.go -destination=./mocks/transactor_mock.go -package=mocks

import (
	"context"

	"tourbook/infras/postgres"

	"github.com/jmoiron/sqlx"
)

// Transactor runs a unit of work on the write pool. Services that touch more
// than one repository in a single transaction depend on this instead of the
// connection itself.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

func NewTransactor(db *postgres.Connection) Transactor {
	return db
}
