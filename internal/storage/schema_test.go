package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfood/myfood-backend/internal/domain"
)

func TestListTables(t *testing.T) {
	db := testDBSetup(t)
	r := newRepos(t, db)
	ctx := context.Background()
	createMeal(t, r, "Almoço", 2)

	tables, err := db.ListTables(ctx)
	require.NoError(t, err)

	byName := make(map[string]domain.TableInfo, len(tables))
	for _, tbl := range tables {
		byName[tbl.Name] = tbl
	}
	require.Contains(t, byName, "meals")
	require.Contains(t, byName, "foods")
	require.Contains(t, byName, "migrations")
	assert.NotContains(t, byName, "sqlite_sequence")

	meals := byName["meals"]
	assert.Equal(t, int64(1), meals.Rows)
	require.Len(t, meals.Columns, 4)
	assert.Equal(t, domain.ColumnInfo{Name: "id", Type: "INTEGER", PrimaryKey: true}, meals.Columns[0])
	assert.Equal(t, domain.ColumnInfo{Name: "iconName", Type: "TEXT", NotNull: true}, meals.Columns[2])
}
