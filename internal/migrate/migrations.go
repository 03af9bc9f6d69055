package migrate

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/myfood/myfood-backend/internal/storage"
)

// All returns the registered migrations in the order they must run.
func All() []Migration {
	return []Migration{
		{
			Name: "001_initial",
			Up: func(ctx context.Context, tx *sqlx.Tx) error {
				return storage.CreateSchema(ctx, tx)
			},
			Down: exec(
				`DROP TABLE IF EXISTS foods`,
				`DROP TABLE IF EXISTS meals`,
				`DROP TABLE IF EXISTS users`,
			),
		},
		{
			Name: "002_food_nutrients",
			Up: exec(
				`ALTER TABLE foods ADD COLUMN protein REAL`,
				`ALTER TABLE foods ADD COLUMN carbs REAL`,
				`ALTER TABLE foods ADD COLUMN fat REAL`,
				`ALTER TABLE foods ADD COLUMN quantity REAL`,
				`ALTER TABLE foods ADD COLUMN unit TEXT`,
			),
			Down: exec(
				`ALTER TABLE foods DROP COLUMN unit`,
				`ALTER TABLE foods DROP COLUMN quantity`,
				`ALTER TABLE foods DROP COLUMN fat`,
				`ALTER TABLE foods DROP COLUMN carbs`,
				`ALTER TABLE foods DROP COLUMN protein`,
			),
		},
		{
			Name: "003_user_profile",
			Up: exec(
				`ALTER TABLE users ADD COLUMN height REAL`,
				`ALTER TABLE users ADD COLUMN weight REAL`,
				`ALTER TABLE users ADD COLUMN age INTEGER`,
				`ALTER TABLE users ADD COLUMN goalWeight REAL`,
			),
			Down: exec(
				`ALTER TABLE users DROP COLUMN goalWeight`,
				`ALTER TABLE users DROP COLUMN age`,
				`ALTER TABLE users DROP COLUMN weight`,
				`ALTER TABLE users DROP COLUMN height`,
			),
		},
		{
			Name: "004_food_indexes",
			Up: exec(
				`CREATE INDEX IF NOT EXISTS idx_foods_mealId ON foods (mealId)`,
				`CREATE INDEX IF NOT EXISTS idx_foods_date ON foods (date)`,
			),
			Down: exec(
				`DROP INDEX IF EXISTS idx_foods_date`,
				`DROP INDEX IF EXISTS idx_foods_mealId`,
			),
		},
	}
}

func exec(statements ...string) func(ctx context.Context, tx *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
