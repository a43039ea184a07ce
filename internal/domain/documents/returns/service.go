package returns

import (
	"context"
	"fmt"
	"time"

	"jargas/internal/core/apperror"
	appctx "jargas/internal/core/context"
	"jargas/internal/core/numerator"
	"jargas/internal/core/tx"
	"jargas/internal/domain"
	"jargas/internal/domain/documents/stock_out"
	"jargas/internal/domain/registers/stock"
	"jargas/pkg/logger"
)

const entityName = "return"

// Issuer numbers and inserts a StockOut inside the caller's transaction.
type Issuer interface {
	Issue(ctx context.Context, doc *stock_out.StockOut) error
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Repo      Repository
	StockOuts stock_out.Repository
	Installed InstalledQuantities
	Issuer    Issuer
	TxManager tx.Manager

	// Retry defaults to numerator.DefaultRetryPolicy
	Retry *numerator.RetryPolicy
	// Invalidator defaults to no-op
	Invalidator stock.Invalidator
	// Now defaults to time.Now
	Now func() time.Time
}

// Service validates returns and releases them.
type Service struct {
	repo        Repository
	stockOuts   stock_out.Repository
	installed   InstalledQuantities
	issuer      Issuer
	txManager   tx.Manager
	retry       numerator.RetryPolicy
	invalidator stock.Invalidator
	now         func() time.Time
}

// NewService creates a new returns service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		repo:        cfg.Repo,
		stockOuts:   cfg.StockOuts,
		installed:   cfg.Installed,
		issuer:      cfg.Issuer,
		txManager:   cfg.TxManager,
		retry:       numerator.DefaultRetryPolicy(),
		invalidator: cfg.Invalidator,
		now:         cfg.Now,
	}
	if cfg.Retry != nil {
		s.retry = *cfg.Retry
	}
	if s.invalidator == nil {
		s.invalidator = stock.NoopCache{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateReturn records a return against one stock-out. The stock-out row is
// locked for the check and the insert; on any failure nothing is written.
func (s *Service) CreateReturn(ctx context.Context, in CreateInput) (*Return, error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	doc := newReturn(projectID, in, appctx.ActorRef(ctx))

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		so, err := s.stockOuts.GetForUpdate(ctx, doc.SourceStockOutID)
		if err != nil {
			return err
		}
		if err := so.CheckLinkable(projectID, doc.MaterialID, doc.MandorID); err != nil {
			return err
		}

		installedQty, err := s.installed.SumByStockOut(ctx, so.ID)
		if err != nil {
			return fmt.Errorf("sum installed: %w", err)
		}
		existing, err := s.repo.SumBySourceStockOut(ctx, so.ID)
		if err != nil {
			return fmt.Errorf("sum returns: %w", err)
		}

		maxAllowed := (so.Quantity - installedQty).ClampZero()
		if existing+doc.QuantityKembali > maxAllowed {
			return apperror.NewValidation("return quantity exceeds the issued quantity not yet installed").
				WithDetail("stockOutId", so.ID).
				WithDetail("issued", so.Quantity).
				WithDetail("installed", installedQty).
				WithDetail("alreadyReturned", existing).
				WithDetail("maxAllowed", maxAllowed).
				WithDetail("remaining", (maxAllowed - existing).ClampZero()).
				WithDetail("quantityKembali", doc.QuantityKembali)
		}

		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, projectID)
	logger.Info(ctx, "return created",
		"id", doc.ID,
		"stock_out_id", doc.SourceStockOutID,
		"quantity_kembali", doc.QuantityKembali,
	)
	return doc, nil
}

// Release reissues the full returned quantity as a new StockOut dated
// releaseDate and marks the return released. It is one-way: a second call
// fails with a validation error and creates nothing.
func (s *Service) Release(ctx context.Context, returnID int64, releaseDate time.Time) (*stock_out.StockOut, error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return nil, err
	}
	if releaseDate.IsZero() {
		return nil, apperror.NewValidation("release date is required").
			WithDetail("field", "releaseDate")
	}
	actor := appctx.ActorRef(ctx)

	var issued *stock_out.StockOut
	err = numerator.RunWithRetry(ctx, s.txManager, numerator.SeriesStockOut, s.retry, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if err := domain.CheckVisible(&r.BaseDocument, entityName, projectID); err != nil {
			return err
		}
		if r.IsReleased {
			return apperror.NewValidation("return already released").
				WithDetail("returnId", r.ID).
				WithDetail("reissuedStockOutId", r.ReissuedStockOutID)
		}

		so := stock_out.NewStockOut(r.ProjectID, r.MandorID, r.MaterialID, r.QuantityKembali, releaseDate, actor)
		so.SourceReturnID = &r.ID
		if err := s.issuer.Issue(ctx, so); err != nil {
			return err
		}

		r.MarkReleased(so.ID, s.now().UTC(), actor)
		if err := s.repo.SaveRelease(ctx, r); err != nil {
			return err
		}

		issued = so
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, projectID)
	logger.Info(ctx, "return released",
		"return_id", returnID,
		"stock_out_id", issued.ID,
		"number", issued.NomorBarangKeluar,
		"quantity", issued.Quantity,
	)
	return issued, nil
}

// GetByID returns a live return of the request's project.
func (s *Service) GetByID(ctx context.Context, id int64) (*Return, error) {
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

// List retrieves returns of the request's project.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Return], error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return domain.ListResult[*Return]{}, err
	}
	filter.ProjectID = projectID
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes a return that has not been released.
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
		if doc.IsReleased {
			return apperror.NewValidation("released return cannot be deleted").
				WithDetail("returnId", id).
				WithDetail("reissuedStockOutId", doc.ReissuedStockOutID)
		}
		return s.repo.SoftDelete(ctx, id, appctx.ActorRef(ctx))
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, projectID)
	logger.Info(ctx, "return deleted", "id", id)
	return nil
}
