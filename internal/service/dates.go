package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jask/termjournal/internal/errs"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ResolveDate turns a journal argument into a YYYY-MM-DD key.
//
//	""          today
//	-y          yesterday
//	-t          tomorrow
//	YYYY-MM-DD  that day
//	MM-DD       that day of the current year
func ResolveDate(arg string, now time.Time) (string, error) {
	arg = strings.TrimSpace(arg)
	switch arg {
	case "":
		return now.Format(dateLayout), nil
	case "-y":
		return now.AddDate(0, 0, -1).Format(dateLayout), nil
	case "-t":
		return now.AddDate(0, 0, 1).Format(dateLayout), nil
	}
	full := arg
	if len(arg) == len("01-02") {
		full = fmt.Sprintf("%04d-%s", now.Year(), arg)
	}
	d, err := time.Parse(dateLayout, full)
	if err != nil || d.Format(dateLayout) != full {
		return "", errs.Validation("bad date %q: use YYYY-MM-DD, MM-DD, -y or -t", arg)
	}
	return full, nil
}

// ResolveMonth turns a view argument (MM or YYYY-MM) into a YYYY-MM key.
func ResolveMonth(arg string, now time.Time) (string, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil && len(arg) <= 2 {
		if n < 1 || n > 12 {
			return "", errs.Validation("bad month %q: use MM or YYYY-MM", arg)
		}
		return fmt.Sprintf("%04d-%02d", now.Year(), n), nil
	}
	m, err := time.Parse(monthLayout, arg)
	if err != nil || m.Format(monthLayout) != arg {
		return "", errs.Validation("bad month %q: use MM or YYYY-MM", arg)
	}
	return arg, nil
}

// LongDate formats a YYYY-MM-DD key as "January 02, 2006". Malformed keys
// are returned unchanged.
func LongDate(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("January 02, 2006")
}

// MonthTitle formats a YYYY-MM key as "January 2006".
func MonthTitle(ym string) string {
	m, err := time.Parse(monthLayout, ym)
	if err != nil {
		return ym
	}
	return m.Format("January 2006")
}
