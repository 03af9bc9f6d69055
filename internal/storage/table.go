// internal/storage/table.go
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/myfood/myfood-backend/internal/core"
)

// Table provides the CRUD primitives every entity repository shares.
// It assumes nothing about the rows beyond an integer "id" primary key.
type Table[T any] struct {
	db      *DB
	name    string
	columns string
}

// newTable panics on an invalid identifier: names are compile-time constants
// interpolated into SQL.
func newTable[T any](db *DB, name string, columns ...string) Table[T] {
	if !core.IsValidIdentifier(name) {
		panic(fmt.Sprintf("storage: invalid table name %q", name))
	}
	for _, col := range columns {
		if !core.IsValidIdentifier(col) {
			panic(fmt.Sprintf("storage: invalid column %q for table %s", col, name))
		}
	}
	return Table[T]{db: db, name: name, columns: strings.Join(columns, ", ")}
}

// Name is the underlying table name.
func (t Table[T]) Name() string { return t.name }

func (t Table[T]) selectFrom() string {
	return fmt.Sprintf("SELECT %s FROM %s", t.columns, t.name)
}

// FindAll scans the whole table in storage order.
func (t Table[T]) FindAll(ctx context.Context) ([]T, error) {
	return Query[T](ctx, t.db, t.selectFrom())
}

// FindByID returns the row with the given id, or nil when there is none.
func (t Table[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	rows, err := Query[T](ctx, t.db, t.selectFrom()+" WHERE id = ? LIMIT 1", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Delete removes the row with the given id. A missing row is ErrNotFound.
func (t Table[T]) Delete(ctx context.Context, id int64) error {
	affected, err := t.db.Execute(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, t.name, id)
	}
	return nil
}

// Count returns the number of rows.
func (t Table[T]) Count(ctx context.Context) (int64, error) {
	counts, err := Query[int64](ctx, t.db, fmt.Sprintf("SELECT COUNT(*) FROM %s", t.name))
	if err != nil {
		return 0, err
	}
	return counts[0], nil
}

// assignments collects the "column = ?" pairs of a partial update.
type assignments struct {
	columns []string
	args    []any
}

func (a *assignments) set(column string, value any) {
	a.columns = append(a.columns, column+" = ?")
	a.args = append(a.args, value)
}

func (a *assignments) empty() bool { return len(a.columns) == 0 }

// update loads the row first so a missing id is ErrNotFound, then writes only
// the collected columns. Nothing is written when no column was collected.
func (t Table[T]) update(ctx context.Context, id int64, a *assignments) (*T, error) {
	current, err := t.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, t.name, id)
	}
	if a.empty() {
		return current, nil
	}

	// nolint:gosec // a.columns only holds identifiers chosen by the repositories
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(a.columns, ", "))
	if _, err := t.db.Execute(ctx, stmt, append(a.args, id)...); err != nil {
		return nil, err
	}
	return current, nil
}
