// Package team holds the employee roster domain: the record type, the role
// and salary rules, and the wizard that collects and edits records.
package team

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Role classifies an employee. It is derived, never entered directly.
type Role int

const (
	RoleFullTime Role = iota
	RolePartTime
	RoleManager
)

const (
	// PartTimeThreshold is the ceiling on rate*hours for a part time role.
	PartTimeThreshold = 35.0
	// MaxWeeklyHours is the number of hours in a week.
	MaxWeeklyHours = 168.0
	weeksPerYear   = 52
)

func (r Role) String() string {
	switch r {
	case RoleManager:
		return "Manager"
	case RolePartTime:
		return "Part Time"
	default:
		return "Full Time"
	}
}

// Key is the stored form of the role.
func (r Role) Key() string {
	switch r {
	case RoleManager:
		return "manager"
	case RolePartTime:
		return "part_time"
	default:
		return "full_time"
	}
}

// ParseRole is the inverse of Key.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager":
		return RoleManager, nil
	case "part_time":
		return RolePartTime, nil
	case "full_time":
		return RoleFullTime, nil
	default:
		return RoleFullTime, fmt.Errorf("unknown role %q", s)
	}
}

// RoleFor derives the role of a new employee from the manager flag and
// weekly pay.
func RoleFor(isManager bool, rate, hours float64) Role {
	switch {
	case isManager:
		return RoleManager
	case rate*hours <= PartTimeThreshold:
		return RolePartTime
	default:
		return RoleFullTime
	}
}

// AnnualSalary is the average yearly income for an hourly rate and weekly hours.
func AnnualSalary(rate, hours float64) float64 {
	return rate * hours * weeksPerYear
}

// Employee is one roster record.
type Employee struct {
	ID        string
	Name      string
	Rate      float64
	Hours     float64
	Role      Role
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) Salary() float64 { return AnnualSalary(e.Rate, e.Hours) }

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func number(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// Details renders the display block for one employee.
func Details(e Employee) []string {
	header := "Employee details: " + e.Name
	return []string{
		header,
		strings.Repeat("-", len(header)),
		fmt.Sprintf("Pay rate: %s / hour", money(e.Rate)),
		fmt.Sprintf("Hours / week: %s", number(e.Hours)),
		fmt.Sprintf("Avg yearly income: %s", money(e.Salary())),
		fmt.Sprintf("Role: %s", e.Role),
	}
}

// Listing renders the roster with 1-based, zero-padded ordinals.
func Listing(roster []Employee) []string {
	out := make([]string, 0, len(roster))
	for i, e := range roster {
		out = append(out, fmt.Sprintf("%02d: %s", i+1, e.Name))
	}
	return out
}
