package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/jask/termjournal/internal/errs"
	"github.com/jask/termjournal/internal/team"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EmployeeRepo handles the team roster.
type EmployeeRepo struct {
	db dbtx
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

// WithTx returns a repo whose statements run inside tx.
func (r *EmployeeRepo) WithTx(tx *sql.Tx) *EmployeeRepo { return &EmployeeRepo{db: tx} }

const employeeColumns = `id, name, rate, hours, role, position, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (team.Employee, error) {
	var (
		e    team.Employee
		role string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Rate, &e.Hours, &role, &e.Position, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return team.Employee{}, err
	}
	r, err := team.ParseRole(role)
	if err != nil {
		return team.Employee{}, fmt.Errorf("employee %s: %w", e.ID, err)
	}
	e.Role = r
	return e, nil
}

func duplicateName(err error, name string) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return errs.Validation("An employee named %q already exists.", name)
	}
	return err
}

// List returns the roster in insertion order.
func (r *EmployeeRepo) List(ctx context.Context) ([]team.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY position, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []team.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Insert stores e at the end of the roster. An empty ID gets a fresh uuid.
func (r *EmployeeRepo) Insert(ctx context.Context, e team.Employee) (team.Employee, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := Now()
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO employees(id, name, rate, hours, role, position, created_at, updated_at)
	SELECT ?, ?, ?, ?, ?, COALESCE(MAX(position), 0) + 1, ?, ? FROM employees;
	`, e.ID, e.Name, e.Rate, e.Hours, e.Role.Key(), now, now)
	if err != nil {
		return team.Employee{}, duplicateName(err, e.Name)
	}
	stored, err := r.get(ctx, e.ID)
	if err != nil {
		return team.Employee{}, err
	}
	return stored, nil
}

// Update rewrites the editable fields of e.
func (r *EmployeeRepo) Update(ctx context.Context, e team.Employee) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE employees SET name = ?, rate = ?, hours = ?, role = ?, updated_at = ?
	WHERE id = ?`, e.Name, e.Rate, e.Hours, e.Role.Key(), Now(), e.ID)
	if err != nil {
		return duplicateName(err, e.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("No matching employee found.")
	}
	return nil
}

// Delete removes the employee with id and closes the gap in positions. Run
// it on a WithTx repo so both statements commit together.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) (int64, error) {
	var pos int
	err := r.db.QueryRowContext(ctx, `SELECT position FROM employees WHERE id = ?`, id).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE employees SET position = position - 1 WHERE position > ?`, pos); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *EmployeeRepo) get(ctx context.Context, id string) (team.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}
