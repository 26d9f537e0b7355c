package dto

import (
	"tourbook/shared/constant"
	"tourbook/shared/model"
	"tourbook/shared/timezone"
)

// Metadata is the audit block rendered on every resource response.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by,omitempty"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = timezone.Format(src.CreatedAt, constant.DateFormat)
	m.ModifiedAt = timezone.Format(src.ModifiedAt, constant.DateFormat)
	m.CreatedBy = src.CreatedBy
}
