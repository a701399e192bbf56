package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jask/termjournal/internal/database/repository"
	"github.com/jask/termjournal/internal/team"
)

const metaEmployeesSeeded = "employees_seeded"

// DefaultRoster is the roster a new database starts with.
func DefaultRoster() []team.Employee {
	seed := []struct {
		name  string
		rate  float64
		hours float64
		role  team.Role
	}{
		{"John A", 22, 40, team.RoleManager},
		{"Mark D", 16, 40, team.RoleFullTime},
		{"Alissa E", 18, 20, team.RolePartTime},
	}
	out := make([]team.Employee, 0, len(seed))
	for i, s := range seed {
		out = append(out, team.Employee{
			ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte("employee:"+s.name)).String(),
			Name:     s.name,
			Rate:     s.rate,
			Hours:    s.hours,
			Role:     s.role,
			Position: i + 1,
		})
	}
	return out
}

// SeedDefaults inserts the default roster once per database. It is
// idempotent and safe to run on every startup; a roster the user emptied
// stays empty.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	meta := repository.NewMetaRepo(db)
	if _, seeded, err := meta.Get(ctx, metaEmployeesSeeded); err != nil || seeded {
		return err
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		now := repository.Now()
		for _, e := range DefaultRoster() {
			if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO employees(id, name, rate, hours, role, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				e.ID, e.Name, e.Rate, e.Hours, e.Role.Key(), e.Position, now, now); err != nil {
				return err
			}
		}
		return meta.SetTx(ctx, tx, metaEmployeesSeeded, now.Format(time.RFC3339))
	})
}
