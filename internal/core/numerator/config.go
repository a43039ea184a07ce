// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Series identifies one document number space.
type Series string

const (
	SeriesStockOut       Series = "stock_out"
	SeriesRequestLetter  Series = "request_letter"
	SeriesDeliveryLetter Series = "delivery_letter"
)

// ResetPeriod decides which part of the prefix scopes the counter.
type ResetPeriod string

const (
	// ResetDaily keys the counter by date: every day starts again at 1.
	ResetDaily ResetPeriod = "day"
	// ResetNever keys the counter by project code only; the date in the
	// printed number is cosmetic.
	ResetNever ResetPeriod = "never"
)

// Placeholders understood in Config.Template.
const (
	placeholderProject = "{PROJECT_CODE}"
	placeholderDate    = "{YYYYMMDD}"
)

// DefaultPadWidth is the minimum counter width. Wider counters are printed as-is.
const DefaultPadWidth = 4

// Source names the table and column holding already issued numbers. Numbers
// found there (soft-deleted rows included) are never issued again.
type Source struct {
	Table  string
	Column string
}

// Config holds numbering configuration of one series.
type Config struct {
	Series Series

	// Template is the number prefix, e.g. "JRGS-KDL-{YYYYMMDD}-".
	Template string

	// PadWidth is the minimum counter width (default 4)
	PadWidth int

	ResetPeriod ResetPeriod

	Source Source
}

// Scope carries the values substituted into a Template.
type Scope struct {
	ProjectCode string
	Date        time.Time
}

// StockOutConfig is the global, daily reset series JRGS-KDL-YYYYMMDD-NNNN.
func StockOutConfig() Config {
	return Config{
		Series:      SeriesStockOut,
		Template:    "JRGS-KDL-" + placeholderDate + "-",
		PadWidth:    DefaultPadWidth,
		ResetPeriod: ResetDaily,
		Source:      Source{Table: "stock_out", Column: "nomor_barang_keluar"},
	}
}

// RequestLetterConfig is the per-project series JRGS-{PROJECT_CODE}-YYYYMMDD-NNNN.
func RequestLetterConfig() Config {
	return Config{
		Series:      SeriesRequestLetter,
		Template:    "JRGS-" + placeholderProject + "-" + placeholderDate + "-",
		PadWidth:    DefaultPadWidth,
		ResetPeriod: ResetNever,
		Source:      Source{Table: "letters", Column: "nomor"},
	}
}

// DeliveryLetterConfig is the per-project series SJ-{PROJECT_CODE}-YYYYMMDD-NNNN.
func DeliveryLetterConfig() Config {
	return Config{
		Series:      SeriesDeliveryLetter,
		Template:    "SJ-" + placeholderProject + "-" + placeholderDate + "-",
		PadWidth:    DefaultPadWidth,
		ResetPeriod: ResetNever,
		Source:      Source{Table: "letters", Column: "nomor"},
	}
}

// Validate checks that scope provides what the template needs.
func (c Config) Validate(scope Scope) error {
	if strings.Contains(c.Template, placeholderProject) && strings.TrimSpace(scope.ProjectCode) == "" {
		return fmt.Errorf("series %s requires a project code", c.Series)
	}
	if strings.Contains(c.Template, placeholderDate) && scope.Date.IsZero() {
		return fmt.Errorf("series %s requires a date", c.Series)
	}
	return nil
}

// Prefix renders the template for scope.
func (c Config) Prefix(scope Scope) string {
	r := strings.NewReplacer(
		placeholderProject, scope.ProjectCode,
		placeholderDate, scope.Date.Format("20060102"),
	)
	return r.Replace(c.Template)
}

// Key is the counter key in sys_sequences.
func (c Config) Key(scope Scope) string {
	switch c.ResetPeriod {
	case ResetDaily:
		if strings.Contains(c.Template, placeholderProject) {
			return fmt.Sprintf("%s:%s:%s", c.Series, scope.ProjectCode, scope.Date.Format("20060102"))
		}
		return fmt.Sprintf("%s:%s", c.Series, scope.Date.Format("20060102"))
	default:
		return fmt.Sprintf("%s:%s", c.Series, scope.ProjectCode)
	}
}

// MatchPattern is a POSIX regular expression matching every number that shares
// this scope's counter. Its only capture group is the trailing counter.
func (c Config) MatchPattern(scope Scope) string {
	var b strings.Builder
	b.WriteString("^")
	rest := c.Template
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, placeholderProject):
			b.WriteString(regexp.QuoteMeta(scope.ProjectCode))
			rest = rest[len(placeholderProject):]
		case strings.HasPrefix(rest, placeholderDate):
			if c.ResetPeriod == ResetDaily {
				b.WriteString(scope.Date.Format("20060102"))
			} else {
				b.WriteString("[0-9]{8}")
			}
			rest = rest[len(placeholderDate):]
		default:
			b.WriteString(regexp.QuoteMeta(rest[:1]))
			rest = rest[1:]
		}
	}
	b.WriteString("([0-9]+)$")
	return b.String()
}

// Format renders the final document number.
func (c Config) Format(scope Scope, counter int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = DefaultPadWidth
	}
	return fmt.Sprintf("%s%0*d", c.Prefix(scope), width, counter)
}

// ParseCounter extracts the trailing counter of a number issued under prefix.
func ParseCounter(number, prefix string) (int64, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	digits := number[len(prefix):]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
