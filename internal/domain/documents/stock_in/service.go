package stock_in

import (
	"context"

	appctx "jargas/internal/core/context"
	"jargas/internal/core/tx"
	"jargas/internal/domain"
	"jargas/internal/domain/catalogs/material"
	"jargas/internal/domain/registers/stock"
	"jargas/pkg/logger"
)

const entityName = "stock_in"

// Service provides business operations for stock-in documents.
type Service struct {
	repo        Repository
	materials   material.Repository
	txManager   tx.Manager
	invalidator stock.Invalidator
}

// NewService creates a new stock-in service. A nil invalidator is a no-op.
func NewService(repo Repository, materials material.Repository, txManager tx.Manager, invalidator stock.Invalidator) *Service {
	if invalidator == nil {
		invalidator = stock.NoopCache{}
	}
	return &Service{
		repo:        repo,
		materials:   materials,
		txManager:   txManager,
		invalidator: invalidator,
	}
}

// Create records a receipt.
func (s *Service) Create(ctx context.Context, doc *StockIn) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.materials.GetByID(ctx, doc.MaterialID)
		if err != nil {
			return err
		}
		if err := m.CheckUsableIn(doc.ProjectID); err != nil {
			return err
		}
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, doc.ProjectID)
	logger.Info(ctx, "stock in created", "id", doc.ID, "material_id", doc.MaterialID, "quantity", doc.Quantity)
	return nil
}

// GetByID returns a live stock-in of the request's project.
func (s *Service) GetByID(ctx context.Context, id int64) (*StockIn, error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckVisible(&doc.BaseDocument, entityName, projectID); err != nil {
		return nil, err
	}
	return doc, nil
}

// List retrieves stock-ins of the request's project.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockIn], error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return domain.ListResult[*StockIn]{}, err
	}
	filter.ProjectID = projectID
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes a stock-in.
func (s *Service) Delete(ctx context.Context, id int64) error {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.CheckVisible(&doc.BaseDocument, entityName, projectID); err != nil {
			return err
		}
		return s.repo.SoftDelete(ctx, id, appctx.ActorRef(ctx))
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, projectID)
	logger.Info(ctx, "stock in deleted", "id", id)
	return nil
}
