package service

import (
	"context"

	"github.com/jask/termjournal/internal/database/repository"
	"github.com/jask/termjournal/internal/errs"
)

// JournalService fronts the entry store for the shell commands. Store
// failures come back classified as collaborator errors.
type JournalService struct {
	Entries *repository.EntryRepo
}

// Open returns the entry for date, creating an empty one when none exists.
func (s *JournalService) Open(ctx context.Context, date string) (repository.Entry, bool, error) {
	e, err := s.Entries.Get(ctx, date)
	if err != nil {
		return repository.Entry{}, false, errs.Collaborator("get", err)
	}
	if e != nil {
		return *e, false, nil
	}
	created, err := s.Entries.Upsert(ctx, date, "")
	if err != nil {
		return repository.Entry{}, false, errs.Collaborator("upsert", err)
	}
	return created, true, nil
}

// Get returns the entry for date or a not-found error.
func (s *JournalService) Get(ctx context.Context, date string) (repository.Entry, error) {
	e, err := s.Entries.Get(ctx, date)
	if err != nil {
		return repository.Entry{}, errs.Collaborator("get", err)
	}
	if e == nil {
		return repository.Entry{}, errs.NotFound("no entry for %s", date)
	}
	return *e, nil
}

func (s *JournalService) Save(ctx context.Context, date, content string) (repository.Entry, error) {
	e, err := s.Entries.Upsert(ctx, date, content)
	return e, errs.Collaborator("upsert", err)
}

func (s *JournalService) Delete(ctx context.Context, date string) (int64, error) {
	n, err := s.Entries.Delete(ctx, date)
	return n, errs.Collaborator("delete", err)
}

func (s *JournalService) Recent(ctx context.Context, limit int) ([]repository.Preview, error) {
	p, err := s.Entries.ListRecent(ctx, limit)
	return p, errs.Collaborator("list recent", err)
}

func (s *JournalService) Month(ctx context.Context, ym string) ([]repository.Preview, error) {
	p, err := s.Entries.ListByMonth(ctx, ym)
	return p, errs.Collaborator("list month", err)
}

// Search returns previews of the entries containing q.
func (s *JournalService) Search(ctx context.Context, q string) ([]repository.Preview, error) {
	hits, err := s.Entries.Search(ctx, q)
	if err != nil {
		return nil, errs.Collaborator("search", err)
	}
	out := make([]repository.Preview, 0, len(hits))
	for _, e := range hits {
		out = append(out, repository.Preview{Date: e.Date, Text: e.Content})
	}
	return out, nil
}
