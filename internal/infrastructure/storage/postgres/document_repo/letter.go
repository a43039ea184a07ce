package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"jargas/internal/domain"
	"jargas/internal/domain/documents/letter"
	"jargas/internal/infrastructure/storage/postgres"
)

// LetterRepo implements letter.Repository.
type LetterRepo struct {
	baseDocumentRepo[letter.Letter]
}

// NewLetterRepo creates a letter repository.
func NewLetterRepo(db postgres.QuerierProvider) *LetterRepo {
	return &LetterRepo{newBaseDocumentRepo[letter.Letter](db, "letters", listSpec{
		dateCol:    "tanggal",
		searchCols: []string{"nomor", "perihal"},
		orderCols:  []string{"id", "nomor", "tanggal", "created_at"},
		defaultBy:  "tanggal DESC, id DESC",
	})}
}

func (r *LetterRepo) Create(ctx context.Context, doc *letter.Letter) error {
	return r.create(ctx, doc, &doc.BaseDocument)
}

func (r *LetterRepo) GetByID(ctx context.Context, id int64) (*letter.Letter, error) {
	return r.getByID(ctx, id)
}

func (r *LetterRepo) List(ctx context.Context, f letter.ListFilter) (domain.ListResult[*letter.Letter], error) {
	q := r.listQuery(f.ProjectID, f.ListFilter)
	if f.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": string(*f.Kind)})
	}
	return r.selectPage(ctx, q, f.ListFilter)
}

var _ letter.Repository = (*LetterRepo)(nil)
