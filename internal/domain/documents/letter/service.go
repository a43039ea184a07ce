package letter

import (
	"context"
	"fmt"

	"jargas/internal/core/apperror"
	"jargas/internal/core/numerator"
	"jargas/internal/core/tx"
	"jargas/internal/domain"
	"jargas/internal/domain/catalogs/project"
	"jargas/pkg/logger"
)

const entityName = "letter"

// Service numbers and stores letters.
type Service struct {
	repo      Repository
	projects  project.Repository
	numerator numerator.Generator
	txManager tx.Manager
	retry     numerator.RetryPolicy
}

// NewService creates a new letter service.
func NewService(repo Repository, projects project.Repository, gen numerator.Generator, txManager tx.Manager, retry numerator.RetryPolicy) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		numerator: gen,
		txManager: txManager,
		retry:     retry,
	}
}

// Create assigns the next number of the letter's series and stores it.
func (s *Service) Create(ctx context.Context, doc *Letter) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	cfg, err := doc.Kind.NumberConfig()
	if err != nil {
		return err
	}

	err = numerator.RunWithRetry(ctx, s.txManager, cfg.Series, s.retry, func(ctx context.Context) error {
		p, err := s.projects.GetByID(ctx, doc.ProjectID)
		if err != nil {
			return err
		}
		if !p.IsLive() || !p.IsActive {
			return apperror.NewValidation("project is not active").
				WithDetail("projectId", p.ID)
		}

		number, err := s.numerator.NextNumber(ctx, cfg, numerator.Scope{ProjectCode: p.Code, Date: doc.Tanggal})
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Nomor = number

		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "letter created", "id", doc.ID, "kind", doc.Kind, "number", doc.Nomor)
	return nil
}

// GetByID returns a letter of the request's project.
func (s *Service) GetByID(ctx context.Context, id int64) (*Letter, error) {
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

// List retrieves letters of the request's project.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Letter], error) {
	projectID, err := domain.RequireProject(ctx)
	if err != nil {
		return domain.ListResult[*Letter]{}, err
	}
	filter.ProjectID = projectID
	return s.repo.List(ctx, filter)
}
