package application

import (
	"context"

	"github.com/formloop/formloop-services/api/internal/forms/domain"
)

// EntryQueryService provides read access to persisted entries for the
// admin surface.
type EntryQueryService interface {
	List(ctx context.Context, filter EntryFilter, paging Paging) ([]domain.Entry, error)
	Detail(ctx context.Context, id string) (*domain.Entry, error)
}

// NewEntryQueryService wraps an EntryRepository in the read use-cases.
func NewEntryQueryService(entries EntryRepository) EntryQueryService {
	return &entryQueryService{entries: entries}
}

type entryQueryService struct {
	entries EntryRepository
}

func (s *entryQueryService) List(ctx context.Context, filter EntryFilter, paging Paging) ([]domain.Entry, error) {
	return s.entries.Find(ctx, filter, paging)
}

func (s *entryQueryService) Detail(ctx context.Context, id string) (*domain.Entry, error) {
	return s.entries.FindByID(ctx, id)
}
