package stock_out

import (
	"context"
	"fmt"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
	"jargas/internal/core/numerator"
	"jargas/internal/core/tx"
	"jargas/internal/domain"
	"jargas/internal/domain/catalogs/mandor"
	"jargas/internal/domain/catalogs/material"
	"jargas/internal/domain/registers/stock"
	"jargas/pkg/logger"
)

const entityName = "stock_out"

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Repo      Repository
	Materials material.Repository
	Mandors   mandor.Repository
	Numerator numerator.Generator
	TxManager tx.Manager

	// Retry defaults to numerator.DefaultRetryPolicy
	Retry *numerator.RetryPolicy
	// Invalidator defaults to no-op
	Invalidator stock.Invalidator
}

// Service provides business operations for stock-out documents.
type Service struct {
	repo        Repository
	materials   material.Repository
	mandors     mandor.Repository
	numerator   numerator.Generator
	txManager   tx.Manager
	retry       numerator.RetryPolicy
	invalidator stock.Invalidator
}

// NewService creates a new stock-out service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		repo:        cfg.Repo,
		materials:   cfg.Materials,
		mandors:     cfg.Mandors,
		numerator:   cfg.Numerator,
		txManager:   cfg.TxManager,
		retry:       numerator.DefaultRetryPolicy(),
		invalidator: cfg.Invalidator,
	}
	if cfg.Retry != nil {
		s.retry = *cfg.Retry
	}
	if s.invalidator == nil {
		s.invalidator = stock.NoopCache{}
	}
	return s
}

// Create numbers and stores a manual issuance. Number collisions are retried
// in a fresh transaction.
func (s *Service) Create(ctx context.Context, doc *StockOut) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := numerator.RunWithRetry(ctx, s.txManager, numerator.SeriesStockOut, s.retry, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, doc); err != nil {
			return err
		}
		return s.Issue(ctx, doc)
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, doc.ProjectID)
	logger.Info(ctx, "stock out created",
		"id", doc.ID,
		"number", doc.NomorBarangKeluar,
		"material_id", doc.MaterialID,
		"mandor_id", doc.MandorID,
		"quantity", doc.Quantity,
	)
	return nil
}

// Issue assigns the next number for doc.TanggalKeluar and inserts doc.
// It must run inside the caller's transaction.
func (s *Service) Issue(ctx context.Context, doc *StockOut) error {
	number, err := s.numerator.NextNumber(ctx, numerator.StockOutConfig(), numerator.Scope{Date: doc.TanggalKeluar})
	if err != nil {
		return fmt.Errorf("generate number: %w", err)
	}
	doc.NomorBarangKeluar = number

	return s.repo.Create(ctx, doc)
}

func (s *Service) checkReferences(ctx context.Context, doc *StockOut) error {
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

// GetByID returns a live stock-out of the request's project.
func (s *Service) GetByID(ctx context.Context, id int64) (*StockOut, error) {
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

// List retrieves stock-outs of the request's project.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockOut], error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return domain.ListResult[*StockOut]{}, err
	}
	filter.ProjectID = projectID
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes a stock-out. Issuances still referenced by live
// Installed or Return rows are kept.
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

		referenced, err := s.repo.HasActiveDependents(ctx, id)
		if err != nil {
			return fmt.Errorf("check dependents: %w", err)
		}
		if referenced {
			return apperror.NewValidation("stock out is referenced by installed or return records").
				WithDetail("stockOutId", id)
		}

		return s.repo.SoftDelete(ctx, id, appctx.ActorRef(ctx))
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, projectID)
	logger.Info(ctx, "stock out deleted", "id", id)
	return nil
}
