package reports

import (
	"context"

	"github.com/google/uuid"
)

type ReportRepository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	Update(ctx context.Context, r *Report) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status, patient string, limit, offset int) ([]*Report, int, error)
}
