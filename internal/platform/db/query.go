package db

import (
	"fmt"
	"strings"

	"github.com/odonto/clinica/pkg/pagination"
)

// Query assembles a filtered SELECT with positional parameters.
type Query struct {
	from    string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery starts a query over from, which may contain joins.
func NewQuery(from, cols string) *Query {
	return &Query{from: from, cols: cols, idx: 1}
}

// Add appends a raw WHERE fragment written with "$%d" style placeholders
// numbered from the next free index.
func (q *Query) Add(clause string, args ...interface{}) {
	idxs := make([]interface{}, len(args))
	for i := range args {
		idxs[i] = q.idx + i
	}
	q.where += " AND " + fmt.Sprintf(clause, idxs...)
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// AddEquals adds "column = value".
func (q *Query) AddEquals(column string, value interface{}) {
	q.Add(column+" = $%d", value)
}

// AddSearch splits term on whitespace and commas; each resulting word must
// appear, case-insensitively, in at least one of columns.
func (q *Query) AddSearch(term string, columns ...string) {
	for _, word := range SearchTerms(term) {
		pattern := "%" + EscapeLike(word) + "%"
		parts := make([]string, len(columns))
		for i, col := range columns {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", col, q.idx)
		}
		q.where += " AND (" + strings.Join(parts, " OR ") + ")"
		q.args = append(q.args, pattern)
		q.idx++
	}
}

// OrderBy sets the ORDER BY clause (without the keyword).
func (q *Query) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

func (q *Query) Args() []interface{} {
	return q.args
}

func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.from, q.where)
}

// DataSQL renders the row query; the LIMIT/OFFSET clause is only added when
// pagination was requested.
func (q *Query) DataSQL(p pagination.Params) string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.from, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	if clause := p.SQL(); clause != "" {
		sql += " " + clause
	}
	return sql
}

// SearchTerms splits a search string the way the list endpoints expect:
// on whitespace and commas, dropping empty words.
func SearchTerms(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
