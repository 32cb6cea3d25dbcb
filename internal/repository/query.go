package repository

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Query is a small SELECT builder. Conditions use ? placeholders and are
// joined with AND; callers parenthesise their own disjunctions. Build
// rebinds placeholders for Postgres.
//
// Query satisfies tenant.Query, so tenant.ApplyScope and tenant.ApplyExact
// work on it directly.
type Query struct {
	columns   []string
	from      string
	joins     []string
	where     []string
	args      []any
	orderBy   string
	limit     int
	offset    int
	forUpdate bool
}

func Select(columns ...string) *Query {
	return &Query{columns: columns}
}

func (q *Query) From(table string) *Query {
	q.from = table
	return q
}

// LeftJoin adds "LEFT JOIN table ON on".
func (q *Query) LeftJoin(table, on string) *Query {
	q.joins = append(q.joins, fmt.Sprintf("LEFT JOIN %s ON %s", table, on))
	return q
}

func (q *Query) Where(cond string, args ...any) *Query {
	q.where = append(q.where, cond)
	q.args = append(q.args, args...)
	return q
}

// WhereIn restricts column to ids using a single array parameter.
func (q *Query) WhereIn(column string, ids []int64) *Query {
	return q.Where(column+" = ANY(?)", pq.Array(ids))
}

// WhereLike adds a substring match; empty values are ignored.
func (q *Query) WhereLike(column, value string) *Query {
	if value == "" {
		return q
	}
	return q.Where(column+" LIKE ?", "%"+escapeLike(value)+"%")
}

func (q *Query) OrderBy(clause string) *Query {
	q.orderBy = clause
	return q
}

func (q *Query) Page(limit, offset int) *Query {
	q.limit = limit
	q.offset = offset
	return q
}

func (q *Query) ForUpdate() *Query {
	q.forUpdate = true
	return q
}

func (q *Query) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(q.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(q.columns, ", "))
	}
	q.writeBody(&sb)

	args := append([]any(nil), q.args...)
	if q.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.orderBy)
	}
	if q.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	}
	if q.offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, q.offset)
	}
	if q.forUpdate {
		sb.WriteString(" FOR UPDATE")
	}
	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), args
}

// BuildCount ignores columns, ordering and paging.
func (q *Query) BuildCount() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*)")
	q.writeBody(&sb)
	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), append([]any(nil), q.args...)
}

func (q *Query) writeBody(sb *strings.Builder) {
	sb.WriteString(" FROM ")
	sb.WriteString(q.from)
	for _, j := range q.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(q.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.where, " AND "))
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
