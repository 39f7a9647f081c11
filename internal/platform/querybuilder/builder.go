package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates statement text and the positional arguments bound
// into it. Placeholders are numbered in bind order across the whole
// statement.
type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) raw(s string) {
	w.buf.WriteString(s)
}

// bind registers v as the next positional argument and returns its
// placeholder.
func (w *sqlWriter) bind(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

// expand writes expr, replacing each ? with the next placeholder bound to
// the matching value. Extra ? beyond the value list pass through untouched.
func (w *sqlWriter) expand(expr string, values []any) {
	if len(values) == 0 {
		w.raw(expr)
		return
	}
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(values) {
			w.raw(w.bind(values[next]))
			next++
			continue
		}
		w.buf.WriteByte(expr[i])
	}
}

func (w *sqlWriter) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.raw(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.raw(" AND ")
		}
		c.writeTo(w)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	conds   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var w sqlWriter
	w.raw("SELECT ")
	w.raw(strings.Join(b.columns, ", "))
	w.raw(" FROM ")
	w.raw(b.table)
	w.where(b.conds)
	if len(b.groupBy) > 0 {
		w.raw(" GROUP BY ")
		w.raw(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		w.raw(" ORDER BY ")
		w.raw(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.raw(" LIMIT ")
		w.raw(strconv.Itoa(b.limit))
	}
	return w.buf.String(), w.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends trailing SQL such as an ON CONFLICT clause; ? placeholders
// in it are rebound like in Expr.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var w sqlWriter
	w.raw("INSERT INTO ")
	w.raw(b.table)
	w.raw(" (")
	w.raw(strings.Join(b.columns, ", "))
	w.raw(") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.raw(", ")
		}
		w.raw("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.raw(", ")
			}
			w.raw(w.bind(value))
		}
		w.raw(")")
	}
	if b.suffix != "" {
		w.raw(" ")
		w.expand(b.suffix, nil)
	}
	return w.buf.String(), w.args, nil
}

type setClause struct {
	column string
	value  any
	expr   string
	args   []any
	isExpr bool
}

type UpdateBuilder struct {
	table  string
	sets   []setClause
	conds  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL expression, with ? placeholders rebound.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: expr, args: args, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var w sqlWriter
	w.raw("UPDATE ")
	w.raw(b.table)
	w.raw(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.raw(", ")
		}
		w.raw(s.column)
		w.raw(" = ")
		if s.isExpr {
			w.expand(s.expr, s.args)
			continue
		}
		w.raw(w.bind(s.value))
	}
	w.where(b.conds)
	if b.suffix != "" {
		w.raw(" ")
		w.expand(b.suffix, nil)
	}
	return w.buf.String(), w.args, nil
}
