package querybuilder

import "strings"

// Condition renders one WHERE predicate. Conditions combine with AND;
// anything needing OR goes through Expr.
type Condition interface {
	writeTo(w *sqlWriter)
}

type binaryCond struct {
	column string
	op     string
	value  any
}

func (c binaryCond) writeTo(w *sqlWriter) {
	w.raw(c.column)
	w.raw(" ")
	w.raw(c.op)
	w.raw(" ")
	w.raw(w.bind(c.value))
}

func Eq(column string, value any) Condition  { return binaryCond{column, "=", value} }
func Lt(column string, value any) Condition  { return binaryCond{column, "<", value} }
func Gt(column string, value any) Condition  { return binaryCond{column, ">", value} }
func Gte(column string, value any) Condition { return binaryCond{column, ">=", value} }

type inCond struct {
	column string
	values []any
}

// In renders an IN list; an empty list renders a predicate that matches
// nothing rather than invalid SQL.
func In(column string, values []any) Condition {
	return inCond{column: column, values: values}
}

func (c inCond) writeTo(w *sqlWriter) {
	if len(c.values) == 0 {
		w.raw("1=0")
		return
	}
	w.raw(c.column)
	w.raw(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.raw(", ")
		}
		w.raw(w.bind(v))
	}
	w.raw(")")
}

type isNullCond struct{ column string }

func IsNull(column string) Condition { return isNullCond{column: column} }

func (c isNullCond) writeTo(w *sqlWriter) {
	w.raw(c.column)
	w.raw(" IS NULL")
}

type exprCond struct {
	expr string
	args []any
}

// Expr embeds a raw SQL fragment; each ? is rebound to the statement's
// positional placeholders in order.
func Expr(expr string, args ...any) Condition {
	return exprCond{expr: expr, args: args}
}

func (c exprCond) writeTo(w *sqlWriter) {
	w.expand(c.expr, c.args)
}

type eqLiteralCond struct {
	column string
	value  string
}

// EqLiteral inlines a quoted string constant instead of binding it, for
// enum-like values that are part of the query shape.
func EqLiteral(column, value string) Condition {
	return eqLiteralCond{column: column, value: value}
}

func (c eqLiteralCond) writeTo(w *sqlWriter) {
	w.raw(c.column)
	w.raw(" = '")
	w.raw(strings.ReplaceAll(c.value, "'", "''"))
	w.raw("'")
}
