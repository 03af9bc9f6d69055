// internal/storage/schema.go
package storage

import (
	"context"
	"fmt"

	"github.com/myfood/myfood-backend/internal/core"
	"github.com/myfood/myfood-backend/internal/domain"
)

// ListTables describes every user table of the database: its columns and row count.
func (db *DB) ListTables(ctx context.Context) ([]domain.TableInfo, error) {
	names, err := Query[string](ctx, db,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	tables := make([]domain.TableInfo, 0, len(names))
	for _, name := range names {
		if !core.IsValidIdentifier(name) {
			customLog.Warnf("Storage: Skipping table with unexpected name %q", name)
			continue
		}

		columns, err := Query[domain.ColumnInfo](ctx, db,
			`SELECT name, type, "notnull", pk > 0 AS pk FROM pragma_table_info(?) ORDER BY cid`, name)
		if err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", name, err)
		}

		counts, err := Query[int64](ctx, db, fmt.Sprintf("SELECT COUNT(*) FROM %s", name))
		if err != nil {
			return nil, fmt.Errorf("counting rows of %s: %w", name, err)
		}

		tables = append(tables, domain.TableInfo{Name: name, Rows: counts[0], Columns: columns})
	}
	return tables, nil
}
