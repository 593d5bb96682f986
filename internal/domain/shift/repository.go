package shift

import "context"

type ShiftRepository interface {
	Create(ctx context.Context, shift ShiftDefinition) (ShiftDefinition, error)
	GetByCode(ctx context.Context, companyID, code string) (ShiftDefinition, error)
	ListByCompany(ctx context.Context, companyID string) ([]ShiftDefinition, error)
}
