// Package querybuilder renders the small set of postgres statements the
// repositories need, numbering placeholders as $1..$n in argument order.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates statement text and its bound arguments. The next
// placeholder number is always len(args)+1.
type sqlWriter struct {
	strings.Builder
	args []any
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.WriteString("$")
	w.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes a fragment whose `?` markers are bound to values in order.
// Markers without a value are written through unchanged.
func (w *sqlWriter) expr(fragment string, values []any) {
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.WriteByte(fragment[i])
	}
}

func (w *sqlWriter) list(items []string) {
	w.WriteString(strings.Join(items, ", "))
}

func (w *sqlWriter) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		c.writeTo(w)
	}
}

func (w *sqlWriter) returning(columns []string) {
	if len(columns) == 0 {
		return
	}
	w.WriteString(" RETURNING ")
	w.list(columns)
}

type Condition interface {
	writeTo(w *sqlWriter)
}

type conditionFunc func(w *sqlWriter)

func (f conditionFunc) writeTo(w *sqlWriter) { f(w) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(w *sqlWriter) {
		w.WriteString(column)
		w.WriteString(" = ")
		w.bind(value)
	})
}

func IsNull(column string) Condition {
	return conditionFunc(func(w *sqlWriter) {
		w.WriteString(column)
		w.WriteString(" IS NULL")
	})
}

// Expr is a raw predicate with `?` markers for its values.
func Expr(fragment string, values ...any) Condition {
	return conditionFunc(func(w *sqlWriter) { w.expr(fragment, values) })
}

type SelectBuilder struct {
	columns   []string
	table     string
	where     []Condition
	orderBy   []string
	limit     int
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
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

// ForUpdate locks the selected rows until the surrounding transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
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
	w.WriteString("SELECT ")
	w.list(b.columns)
	w.WriteString(" FROM ")
	w.WriteString(b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.WriteString(" ORDER BY ")
		w.list(b.orderBy)
	}
	if b.limit > 0 {
		w.WriteString(" LIMIT ")
		w.WriteString(strconv.Itoa(b.limit))
	}
	if b.forUpdate {
		w.WriteString(" FOR UPDATE")
	}
	return w.String(), w.args, nil
}

type InsertBuilder struct {
	table      string
	columns    []string
	rows       [][]any
	conflict   []string
	updateCols []string
	returning  []string
	err        error
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

// OnConflictUpdate turns the insert into an upsert on the conflict target,
// overwriting updateColumns from the proposed row.
func (b *InsertBuilder) OnConflictUpdate(conflictColumns []string, updateColumns ...string) *InsertBuilder {
	b.conflict = append([]string(nil), conflictColumns...)
	b.updateCols = append([]string(nil), updateColumns...)
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
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
	w.WriteString("INSERT INTO ")
	w.WriteString(b.table)
	w.WriteString(" (")
	w.list(b.columns)
	w.WriteString(") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert into %s: row %d has %d values, expected %d", b.table, rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.WriteString(", ")
		}
		w.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.WriteString(", ")
			}
			w.bind(value)
		}
		w.WriteString(")")
	}

	if len(b.conflict) > 0 {
		w.WriteString(" ON CONFLICT (")
		w.list(b.conflict)
		w.WriteString(")")
		if len(b.updateCols) == 0 {
			w.WriteString(" DO NOTHING")
		} else {
			w.WriteString(" DO UPDATE SET ")
			for i, col := range b.updateCols {
				if i > 0 {
					w.WriteString(", ")
				}
				w.WriteString(col)
				w.WriteString(" = EXCLUDED.")
				w.WriteString(col)
			}
		}
	}
	w.returning(b.returning)
	return w.String(), w.args, nil
}

type assignment struct {
	column   string
	value    any
	fragment string
	isExpr   bool
}

type UpdateBuilder struct {
	table     string
	sets      []assignment
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw expression such as `NOW()` or `remaining_budget - ?`.
func (b *UpdateBuilder) SetExpr(column, fragment string, values ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, fragment: fragment, value: values, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append(b.returning, columns...)
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
	w.WriteString("UPDATE ")
	w.WriteString(b.table)
	w.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(s.column)
		w.WriteString(" = ")
		if s.isExpr {
			values, _ := s.value.([]any)
			w.expr(s.fragment, values)
			continue
		}
		w.bind(s.value)
	}
	w.where(b.where)
	w.returning(b.returning)
	return w.String(), w.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete from %s without where clause is not allowed", b.table)
	}

	var w sqlWriter
	w.WriteString("DELETE FROM ")
	w.WriteString(b.table)
	w.where(b.where)
	return w.String(), w.args, nil
}
