package model

import (
	"time"

	"tourbook/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldCountry   = "country"
	FieldRole      = "role"
	FieldActive    = "active"
	FieldLastLogin = "last_login"
)

// WithoutProviderQuery keeps users that have not registered a provider profile.
const WithoutProviderQuery = "NOT EXISTS (SELECT 1 FROM service_providers sp WHERE sp.user_id = users.id)"

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	FullName  string     `db:"full_name"`
	Phone     *string    `db:"phone"`
	Country   *string    `db:"country"`
	Role      string     `db:"role"`
	Active    bool       `db:"active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}
