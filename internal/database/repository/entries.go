package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jask/termjournal/internal/errs"
)

var (
	dateKey  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthKey = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

func checkDate(date string) error {
	if !dateKey.MatchString(date) {
		return errs.Validation("bad date %q", date)
	}
	return nil
}

func checkMonth(ym string) error {
	if !monthKey.MatchString(ym) {
		return errs.Validation("bad month %q", ym)
	}
	return nil
}

// EntryRepo handles journal entries.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

const entryColumns = `id, date, content, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Date, &e.Content, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Get returns the entry for date, or nil when none exists.
func (r *EntryRepo) Get(ctx context.Context, date string) (*Entry, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE date = ?`, date)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Upsert inserts the entry or replaces its content, keeping created_at and
// refreshing updated_at.
func (r *EntryRepo) Upsert(ctx context.Context, date, content string) (Entry, error) {
	if err := checkDate(date); err != nil {
		return Entry{}, err
	}
	now := Now()
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO entries(date, content, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
	 content=excluded.content,
	 updated_at=excluded.updated_at;
	`, date, content, now, now)
	if err != nil {
		return Entry{}, err
	}
	e, err := r.Get(ctx, date)
	if err != nil {
		return Entry{}, err
	}
	if e == nil {
		return Entry{}, fmt.Errorf("upsert %s: row vanished", date)
	}
	return *e, nil
}

// Delete removes the entry for date and reports how many rows went away.
func (r *EntryRepo) Delete(ctx context.Context, date string) (int64, error) {
	if err := checkDate(date); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE date = ?`, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAll removes every entry inside tx.
func (r *EntryRepo) DeleteAll(ctx context.Context, tx *sql.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByMonth returns previews for ym (YYYY-MM) in ascending date order.
func (r *EntryRepo) ListByMonth(ctx context.Context, ym string) ([]Preview, error) {
	if err := checkMonth(ym); err != nil {
		return nil, err
	}
	return r.previews(ctx, `
	SELECT date, substr(content, 1, ?) FROM entries
	WHERE substr(date, 1, 7) = ?
	ORDER BY date ASC`, previewRunes, ym)
}

// ListRecent returns up to limit previews, newest date first.
func (r *EntryRepo) ListRecent(ctx context.Context, limit int) ([]Preview, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return r.previews(ctx, `
	SELECT date, substr(content, 1, ?) FROM entries
	ORDER BY date DESC
	LIMIT ?`, previewRunes, limit)
}

// Search returns entries whose content contains q (case-sensitive), most
// recently updated first. A blank query matches nothing.
func (r *EntryRepo) Search(ctx context.Context, q string) ([]Entry, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT `+entryColumns+` FROM entries
	WHERE instr(content, ?) > 0
	ORDER BY updated_at DESC, id DESC
	LIMIT ?`, q, SearchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EntryRepo) previews(ctx context.Context, query string, args ...any) ([]Preview, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Preview
	for rows.Next() {
		var p Preview
		if err := rows.Scan(&p.Date, &p.Text); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
