package installed

import (
	"context"
	"fmt"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
	"jargas/internal/core/tx"
	"jargas/internal/domain"
	"jargas/internal/domain/catalogs/mandor"
	"jargas/internal/domain/catalogs/material"
	"jargas/internal/domain/documents/stock_out"
	"jargas/internal/domain/registers/stock"
	"jargas/pkg/logger"
)

const entityName = "installed"

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Repo        Repository
	StockOuts   stock_out.Repository
	Returns     ReturnedQuantities
	Materials   material.Repository
	Mandors     mandor.Repository
	TxManager   tx.Manager
	Invalidator stock.Invalidator
}

// Service provides business operations for installed records.
type Service struct {
	repo        Repository
	stockOuts   stock_out.Repository
	returns     ReturnedQuantities
	materials   material.Repository
	mandors     mandor.Repository
	txManager   tx.Manager
	invalidator stock.Invalidator
}

// NewService creates a new installed service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		repo:        cfg.Repo,
		stockOuts:   cfg.StockOuts,
		returns:     cfg.Returns,
		materials:   cfg.Materials,
		mandors:     cfg.Mandors,
		txManager:   cfg.TxManager,
		invalidator: cfg.Invalidator,
	}
	if s.invalidator == nil {
		s.invalidator = stock.NoopCache{}
	}
	return s
}

// Create records an installation. When linked to a stock-out, the stock-out
// row is locked and installed plus returned quantity may not exceed it.
func (s *Service) Create(ctx context.Context, doc *Installed) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, doc); err != nil {
			return err
		}
		if doc.StockOutID != nil {
			if err := s.checkStockOut(ctx, doc); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, doc.ProjectID)
	logger.Info(ctx, "installed created",
		"id", doc.ID,
		"stock_out_id", doc.StockOutID,
		"material_id", doc.MaterialID,
		"quantity", doc.Quantity,
	)
	return nil
}

func (s *Service) checkReferences(ctx context.Context, doc *Installed) error {
	m, err := s.materials.GetByID(ctx, doc.MaterialID)
	if err != nil {
		return err
	}
	if err := m.CheckUsableIn(doc.ProjectID); err != nil {
		return err
	}
	md, err := s.mandors.GetByID(ctx, doc.MandorID)
	if err != nil {
		return err
	}
	return md.CheckUsableIn(doc.ProjectID)
}

func (s *Service) checkStockOut(ctx context.Context, doc *Installed) error {
	so, err := s.stockOuts.GetForUpdate(ctx, *doc.StockOutID)
	if err != nil {
		return err
	}
	if err := so.CheckLinkable(doc.ProjectID, doc.MaterialID, doc.MandorID); err != nil {
		return err
	}

	installedQty, err := s.repo.SumByStockOut(ctx, so.ID)
	if err != nil {
		return fmt.Errorf("sum installed: %w", err)
	}
	returnedQty, err := s.returns.SumBySourceStockOut(ctx, so.ID)
	if err != nil {
		return fmt.Errorf("sum returns: %w", err)
	}

	available := (so.Quantity - installedQty - returnedQty).ClampZero()
	if doc.Quantity > available {
		return apperror.NewValidation("installed quantity exceeds the remaining issued quantity").
			WithDetail("stockOutId", so.ID).
			WithDetail("issued", so.Quantity).
			WithDetail("installed", installedQty).
			WithDetail("returned", returnedQty).
			WithDetail("available", available).
			WithDetail("quantity", doc.Quantity)
	}
	return nil
}

// GetByID returns a live installed record of the request's project.
func (s *Service) GetByID(ctx context.Context, id int64) (*Installed, error) {
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

// List retrieves installed records of the request's project.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Installed], error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return domain.ListResult[*Installed]{}, err
	}
	filter.ProjectID = projectID
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes an installed record.
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
	logger.Info(ctx, "installed deleted", "id", id)
	return nil
}
