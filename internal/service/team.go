package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/termjournal/internal/database"
	"github.com/jask/termjournal/internal/database/repository"
	"github.com/jask/termjournal/internal/errs"
	"github.com/jask/termjournal/internal/team"
)

// TeamService persists wizard commits.
type TeamService struct {
	DB        *sql.DB
	Employees *repository.EmployeeRepo
}

func (s *TeamService) Roster(ctx context.Context) ([]team.Employee, error) {
	list, err := s.Employees.List(ctx)
	return list, errs.Collaborator("list employees", err)
}

// Apply persists c in one transaction and returns the stored record.
func (s *TeamService) Apply(ctx context.Context, c team.Commit) (team.Employee, error) {
	if s.DB == nil {
		return s.apply(ctx, s.Employees, c)
	}
	var stored team.Employee
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var err error
		stored, err = s.apply(ctx, s.Employees.WithTx(tx), c)
		return err
	})
	if err != nil {
		return team.Employee{}, errs.Collaborator("apply team change", err)
	}
	return stored, nil
}

func (s *TeamService) apply(ctx context.Context, repo *repository.EmployeeRepo, c team.Commit) (team.Employee, error) {
	switch c.Kind {
	case team.CommitInsert:
		e, err := repo.Insert(ctx, c.Employee)
		return e, errs.Collaborator("insert employee", err)
	case team.CommitUpdate:
		if err := repo.Update(ctx, c.Employee); err != nil {
			return team.Employee{}, errs.Collaborator("update employee", err)
		}
		return c.Employee, nil
	case team.CommitDelete:
		n, err := repo.Delete(ctx, c.Employee.ID)
		if err != nil {
			return team.Employee{}, errs.Collaborator("delete employee", err)
		}
		if n == 0 {
			return team.Employee{}, errs.NotFound("No matching employee found.")
		}
		return c.Employee, nil
	default:
		return team.Employee{}, fmt.Errorf("unknown commit kind %d", c.Kind)
	}
}
