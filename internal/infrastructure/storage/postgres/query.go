package postgres

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"jargas/internal/core/apperror"
	"jargas/internal/core/entity"
)

// MaxPageSize caps Limit on every listing query.
const MaxPageSize = 500

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// NotDeleted restricts q to rows that are not soft-deleted. alias may be empty.
func NotDeleted(q squirrel.SelectBuilder, alias string) squirrel.SelectBuilder {
	return q.Where(squirrel.Eq{qualify(alias, "is_deleted"): entity.Active})
}

// ApplyProjectScope restricts q to one project. A nil projectID means all projects.
func ApplyProjectScope(q squirrel.SelectBuilder, alias string, projectID *int64) squirrel.SelectBuilder {
	if projectID == nil {
		return q
	}
	return q.Where(squirrel.Eq{qualify(alias, "project_id"): *projectID})
}

// ApplyDateRange restricts column to [from, to], both inclusive and optional.
func ApplyDateRange(q squirrel.SelectBuilder, column string, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{column: *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{column: *to})
	}
	return q
}

// ApplySearch adds a case-insensitive substring match across columns.
func ApplySearch(q squirrel.SelectBuilder, search string, columns ...string) squirrel.SelectBuilder {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return q
	}

	pattern := "%" + escapeLike(search) + "%"
	or := make(squirrel.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return q.Where(or)
}

// ApplyPage adds LIMIT/OFFSET. Limit is capped at MaxPageSize; zero means no limit.
func ApplyPage(q squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return q
}

// ParseOrderBy validates "field" / "-field" / "+field" against allowed and
// returns an ORDER BY clause. Empty input yields fallback.
func ParseOrderBy(orderBy, fallback string, allowed ...string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return fallback, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}
	field = strings.TrimSpace(field)

	for _, col := range allowed {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").
		WithDetail("orderBy", orderBy).
		WithDetail("field", field)
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
