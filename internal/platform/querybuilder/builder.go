// Package querybuilder renders small postgres statements with numbered placeholders.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// args collects bind values while a statement is rendered.
type args struct {
	buf    strings.Builder
	values []any
}

func (a *args) bind(value any) {
	a.values = append(a.values, value)
	a.buf.WriteString("$")
	a.buf.WriteString(strconv.Itoa(len(a.values)))
}

func (a *args) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			a.buf.WriteString(" WHERE ")
		} else {
			a.buf.WriteString(" AND ")
		}
		c.render(a)
	}
}

func (a *args) suffix(sql string) {
	if sql != "" {
		a.buf.WriteString(" ")
		a.buf.WriteString(sql)
	}
}

type Condition interface {
	render(a *args)
}

type conditionFunc func(a *args)

func (f conditionFunc) render(a *args) { f(a) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(a *args) {
		a.buf.WriteString(column)
		a.buf.WriteString(" = ")
		a.bind(value)
	})
}

// In expands one placeholder per value. An empty set matches nothing.
func In(column string, values []any) Condition {
	return conditionFunc(func(a *args) {
		if len(values) == 0 {
			a.buf.WriteString("1=0")
			return
		}
		a.buf.WriteString(column)
		a.buf.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				a.buf.WriteString(", ")
			}
			a.bind(v)
		}
		a.buf.WriteString(")")
	})
}

// Any renders "column = ANY($n)" with array bound once, typically a pq.Array.
func Any(column string, array any) Condition {
	return conditionFunc(func(a *args) {
		a.buf.WriteString(column)
		a.buf.WriteString(" = ANY(")
		a.bind(array)
		a.buf.WriteString(")")
	})
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = strings.TrimSpace(table)
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

// Limit of zero or less renders no LIMIT clause.
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select columns are required")
	case b.table == "":
		return "", nil, errors.New("select table is required")
	}

	var a args
	fmt.Fprintf(&a.buf, "SELECT %s FROM %s", strings.Join(b.columns, ", "), b.table)
	a.where(b.where)
	if len(b.orderBy) > 0 {
		a.buf.WriteString(" ORDER BY ")
		a.buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		a.buf.WriteString(" LIMIT ")
		a.buf.WriteString(strconv.Itoa(b.limit))
	}
	return a.buf.String(), a.values, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: strings.TrimSpace(table)}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values appends one row; every row must match the column count.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, e.g. an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.table == "":
		return "", nil, errors.New("insert table is required")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, errors.New("insert values are required")
	}

	a := args{values: make([]any, 0, len(b.rows)*len(b.columns))}
	fmt.Fprintf(&a.buf, "INSERT INTO %s (%s) VALUES ", b.table, strings.Join(b.columns, ", "))
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			a.buf.WriteString(", ")
		}
		a.buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				a.buf.WriteString(", ")
			}
			a.bind(value)
		}
		a.buf.WriteString(")")
	}
	a.suffix(b.suffix)
	return a.buf.String(), a.values, nil
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: strings.TrimSpace(table)}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.table == "":
		return "", nil, errors.New("update table is required")
	case len(b.sets) == 0:
		return "", nil, errors.New("update sets are required")
	}

	var a args
	fmt.Fprintf(&a.buf, "UPDATE %s SET ", b.table)
	for i, s := range b.sets {
		if i > 0 {
			a.buf.WriteString(", ")
		}
		a.buf.WriteString(s.column)
		a.buf.WriteString(" = ")
		a.bind(s.value)
	}
	a.where(b.where)
	a.suffix(b.suffix)
	return a.buf.String(), a.values, nil
}
