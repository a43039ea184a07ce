package discrepancy

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"jargas/internal/core/apperror"
	"jargas/internal/core/tx"
	"jargas/internal/domain"
	"jargas/internal/domain/catalogs/mandor"
	"jargas/internal/domain/catalogs/material"
	"jargas/pkg/logger"
)

var tracer = otel.Tracer("jargas/discrepancy")

// DefaultPairWarnThreshold is the pair count above which a pass is logged as large.
const DefaultPairWarnThreshold = 50_000

// Service runs reconciliation passes and serves notifications.
type Service struct {
	repo          Repository
	materials     material.Repository
	mandors       mandor.Repository
	txManager     tx.Manager
	warnThreshold int
}

// NewService creates a discrepancy service. warnThreshold <= 0 uses DefaultPairWarnThreshold.
func NewService(repo Repository, materials material.Repository, mandors mandor.Repository, txManager tx.Manager, warnThreshold int) *Service {
	if warnThreshold <= 0 {
		warnThreshold = DefaultPairWarnThreshold
	}
	return &Service{
		repo:          repo,
		materials:     materials,
		mandors:       mandors,
		txManager:     txManager,
		warnThreshold: warnThreshold,
	}
}

// Check evaluates every (visible mandor x active material) pair of the
// project, reconciles its notifications in one transaction and returns the
// reports of pairs with a warning. Running it twice without ledger changes
// writes nothing the second time.
func (s *Service) Check(ctx context.Context, projectID int64) ([]Report, error) {
	if projectID <= 0 {
		return nil, apperror.NewValidation("project is required").
			WithDetail("field", "projectId")
	}

	ctx, span := tracer.Start(ctx, "discrepancy.Check")
	defer span.End()
	span.SetAttributes(attribute.Int64("project.id", projectID))

	var (
		reports []Report
		plan    Plan
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockProject(ctx, projectID); err != nil {
			return fmt.Errorf("lock project: %w", err)
		}

		var err error
		reports, err = s.evaluate(ctx, projectID)
		if err != nil {
			return err
		}

		desired := make([]Notification, 0, len(reports))
		for _, r := range reports {
			desired = append(desired, NotificationFor(projectID, r))
		}

		current, err := s.repo.ListByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("list notifications: %w", err)
		}

		plan = BuildPlan(desired, current)
		return s.apply(ctx, projectID, plan)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Info(ctx, "discrepancy check finished",
		"project_id", projectID,
		"warnings", len(reports),
		"created", len(plan.Create),
		"updated", len(plan.Update),
		"deleted", len(plan.Delete),
		"unchanged", plan.Unchanged,
	)
	return reports, nil
}

// evaluate returns warning reports ordered by mandor then material.
func (s *Service) evaluate(ctx context.Context, projectID int64) ([]Report, error) {
	mandors, err := s.mandors.ListVisible(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list mandors: %w", err)
	}
	materials, err := s.materials.ListActive(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}

	if pairs := len(mandors) * len(materials); pairs > s.warnThreshold {
		logger.Warn(ctx, "discrepancy check over a large pair set",
			"project_id", projectID,
			"mandors", len(mandors),
			"materials", len(materials),
			"pairs", pairs,
		)
	}

	issued, err := s.repo.SumIssuedByPair(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("sum issued: %w", err)
	}
	installed, err := s.repo.SumInstalledByPair(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("sum installed: %w", err)
	}
	pending, err := s.repo.SumPendingReturnsByPair(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("sum returns: %w", err)
	}

	var reports []Report
	for _, md := range mandors {
		for _, m := range materials {
			pair := Pair{MandorID: md.ID, MaterialID: m.ID}
			// a pair with nothing issued can never warn
			if _, ok := issued[pair]; !ok {
				continue
			}
			r := Evaluate(pair, PairTotals{
				Keluar:         issued[pair],
				Terpasang:      installed[pair],
				KembaliDicatat: pending[pair],
			})
			if !r.Warning {
				continue
			}
			r.MandorNama = md.Nama
			r.NamaBarang = m.NamaBarang
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func (s *Service) apply(ctx context.Context, projectID int64, plan Plan) error {
	if plan.IsEmpty() {
		return nil
	}
	if len(plan.Delete) > 0 {
		if err := s.repo.Delete(ctx, projectID, plan.Delete); err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
	}
	if len(plan.Update) > 0 {
		if err := s.repo.Update(ctx, plan.Update); err != nil {
			return fmt.Errorf("update notifications: %w", err)
		}
	}
	if len(plan.Create) > 0 {
		if err := s.repo.Insert(ctx, plan.Create); err != nil {
			return fmt.Errorf("insert notifications: %w", err)
		}
	}
	return nil
}

// ListNotifications returns notifications of the request's project.
func (s *Service) ListNotifications(ctx context.Context, filter ListFilter) (domain.ListResult[*Notification], error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return domain.ListResult[*Notification]{}, err
	}
	filter.ProjectID = projectID
	return s.repo.List(ctx, filter)
}

// MarkRead flags notifications of the request's project as read.
func (s *Service) MarkRead(ctx context.Context, ids []int64) (int64, error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, apperror.NewValidation("no notification ids given").
			WithDetail("field", "ids")
	}
	return s.repo.MarkRead(ctx, projectID, ids)
}
