// Package project provides the Project catalog. A project is the tenant of every ledger row.
package project

import (
	"context"

	"jargas/internal/core/entity"
)

// Project is a construction site owning its ledger rows.
type Project struct {
	entity.BaseEntity

	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"isActive"`
}

// Repository is the read side of the project catalog.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Project, error)
	ListActive(ctx context.Context) ([]*Project, error)
}
