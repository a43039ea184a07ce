// Package letter provides numbered project letters: material request letters
// and delivery notes (surat jalan).
package letter

import (
	"context"
	"time"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
	"jargas/internal/core/numerator"
)

// Kind selects the letter series.
type Kind string

const (
	KindRequest  Kind = "request"
	KindDelivery Kind = "delivery"
)

// NumberConfig returns the numbering series of the kind.
func (k Kind) NumberConfig() (numerator.Config, error) {
	switch k {
	case KindRequest:
		return numerator.RequestLetterConfig(), nil
	case KindDelivery:
		return numerator.DeliveryLetterConfig(), nil
	default:
		return numerator.Config{}, apperror.NewValidation("unknown letter kind").
			WithDetail("kind", string(k))
	}
}

// Letter is a numbered document printed for a project.
type Letter struct {
	entity.BaseDocument

	Kind       Kind      `db:"kind" json:"kind"`
	Nomor      string    `db:"nomor" json:"nomor"`
	MandorID   *int64    `db:"mandor_id" json:"mandorId,omitempty"`
	Tanggal    time.Time `db:"tanggal" json:"tanggal"`
	Perihal    string    `db:"perihal" json:"perihal"`
	Keterangan *string   `db:"keterangan" json:"keterangan,omitempty"`
}

// Validate implements entity.Validatable.
func (l *Letter) Validate(ctx context.Context) error {
	if err := l.BaseDocument.Validate(ctx); err != nil {
		return err
	}
	if _, err := l.Kind.NumberConfig(); err != nil {
		return err
	}
	if l.Tanggal.IsZero() {
		return apperror.NewValidation("tanggal is required").
			WithDetail("field", "tanggal")
	}
	if l.Perihal == "" {
		return apperror.NewValidation("perihal is required").
			WithDetail("field", "perihal")
	}
	return nil
}

var _ entity.Validatable = (*Letter)(nil)
