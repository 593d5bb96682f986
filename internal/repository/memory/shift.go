package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
)

type ShiftRepository struct {
	mu     sync.RWMutex
	shifts map[string]shift.ShiftDefinition
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{shifts: make(map[string]shift.ShiftDefinition)}
}

func shiftKey(companyID, code string) string {
	return companyID + "/" + code
}

// Create implements shift.ShiftRepository.
func (r *ShiftRepository) Create(_ context.Context, s shift.ShiftDefinition) (shift.ShiftDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := shiftKey(s.CompanyID, s.Code)
	if _, exists := r.shifts[key]; exists {
		return shift.ShiftDefinition{}, shift.ErrShiftCodeExists
	}
	r.shifts[key] = s
	return s, nil
}

// GetByCode implements shift.ShiftRepository.
func (r *ShiftRepository) GetByCode(_ context.Context, companyID, code string) (shift.ShiftDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shifts[shiftKey(companyID, code)]
	if !ok {
		return shift.ShiftDefinition{}, shift.ErrShiftNotFound
	}
	return s, nil
}

// ListByCompany implements shift.ShiftRepository.
func (r *ShiftRepository) ListByCompany(_ context.Context, companyID string) ([]shift.ShiftDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []shift.ShiftDefinition{}
	for _, s := range r.shifts {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b shift.ShiftDefinition) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out, nil
}

var _ shift.ShiftRepository = (*ShiftRepository)(nil)
