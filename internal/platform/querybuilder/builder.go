package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// Condition is one predicate of a WHERE clause; conditions are joined with AND.
type Condition func(w *sqlWriter)

func Eq(column string, value any) Condition {
	return func(w *sqlWriter) {
		w.str(column).str(" = ").bind(value)
	}
}

func IsNull(column string) Condition {
	return func(w *sqlWriter) {
		w.str(column).str(" IS NULL")
	}
}

// sqlWriter accumulates SQL text and positional $n arguments.
type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) str(s string) *sqlWriter {
	w.buf.WriteString(s)
	return w
}

func (w *sqlWriter) bind(v any) *sqlWriter {
	w.args = append(w.args, v)
	w.buf.WriteByte('$')
	w.buf.WriteString(strconv.Itoa(len(w.args)))
	return w
}

func (w *sqlWriter) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.str(" WHERE ")
		} else {
			w.str(" AND ")
		}
		c(w)
	}
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.buf.String(), w.args, nil
}

type SelectBuilder struct {
	columns []string
	table   string
	conds   []Condition
	order   []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder { b.table = table; return b }

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	b.order = append(b.order, columns...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder { b.limit = n; return b }

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select: no columns")
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("select: no table")
	}

	var w sqlWriter
	w.str("SELECT ").str(strings.Join(b.columns, ", ")).str(" FROM ").str(b.table)
	w.where(b.conds)
	if len(b.order) > 0 {
		w.str(" ORDER BY ").str(strings.Join(b.order, ", "))
	}
	if b.limit > 0 {
		w.str(" LIMIT ").str(strconv.Itoa(b.limit))
	}
	return w.result()
}

type assignment struct {
	column string
	value  any
	expr   string
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	conds []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns raw SQL, e.g. NOW().
func (b *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("update: no table")
	case len(b.sets) == 0:
		return "", nil, errors.New("update: no assignments")
	}

	var w sqlWriter
	w.str("UPDATE ").str(b.table).str(" SET ")
	for i, a := range b.sets {
		if i > 0 {
			w.str(", ")
		}
		w.str(a.column).str(" = ")
		if a.expr != "" {
			w.str(a.expr)
		} else {
			w.bind(a.value)
		}
	}
	w.where(b.conds)
	return w.result()
}

// insert renders a multi-row INSERT; every row must match len(columns).
func insert(table string, columns []string, rows [][]any, suffix string) (string, []any, error) {
	switch {
	case strings.TrimSpace(table) == "":
		return "", nil, errors.New("insert: no table")
	case len(columns) == 0:
		return "", nil, errors.New("insert: no columns")
	case len(rows) == 0:
		return "", nil, errors.New("insert: no rows")
	}

	var w sqlWriter
	w.args = make([]any, 0, len(rows)*len(columns))
	w.str("INSERT INTO ").str(table).str(" (").str(strings.Join(columns, ", ")).str(") VALUES ")
	for r, row := range rows {
		if len(row) != len(columns) {
			return "", nil, errors.New("insert: row " + strconv.Itoa(r) + " does not match the column list")
		}
		if r > 0 {
			w.str(", ")
		}
		w.str("(")
		for c, v := range row {
			if c > 0 {
				w.str(", ")
			}
			w.bind(v)
		}
		w.str(")")
	}
	if s := strings.TrimSpace(suffix); s != "" {
		w.str(" ").str(s)
	}
	return w.result()
}
