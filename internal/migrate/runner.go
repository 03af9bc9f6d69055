// Package migrate applies schema migrations exactly once, recording each in
// the migrations ledger table.
package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/logger"
	"github.com/myfood/myfood-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// ErrMigrationFailed wraps any failure of a run. The schema cannot be trusted
// afterwards, so callers stop the process.
var ErrMigrationFailed = errors.New("migration failed")

const createLedgerSQL = `
	CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

// Migration is one schema step. Up and Down run inside the transaction that
// also writes (or removes) the ledger row.
type Migration struct {
	Name string
	Up   func(ctx context.Context, tx *sqlx.Tx) error
	Down func(ctx context.Context, tx *sqlx.Tx) error
}

// Runner applies an ordered list of migrations to one database.
type Runner struct {
	db         *storage.DB
	migrations []Migration
}

func NewRunner(db *storage.DB, migrations []Migration) *Runner {
	return &Runner{db: db, migrations: migrations}
}

// Run applies every pending migration in order and returns the names it applied.
// The first failure aborts the run.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}

	applied := make([]string, 0)
	for _, m := range r.migrations {
		done, err := r.isApplied(ctx, m.Name)
		if err != nil {
			return applied, fmt.Errorf("%w: checking %s: %w", ErrMigrationFailed, m.Name, err)
		}
		if done {
			continue
		}

		customLog.Printf("Migrate: Running migration %s", m.Name)
		err = r.inTx(ctx, func(tx *sqlx.Tx) error {
			if err := m.Up(ctx, tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO migrations (name) VALUES (?)`, m.Name)
			return err
		})
		if err != nil {
			customLog.Errorf("Migrate: Migration %s failed: %v", m.Name, err)
			return applied, fmt.Errorf("%w: %s: %w", ErrMigrationFailed, m.Name, err)
		}
		customLog.Printf("Migrate: Migration %s applied", m.Name)
		applied = append(applied, m.Name)
	}

	customLog.Printf("Migrate: Schema up to date (%d applied this run)", len(applied))
	return applied, nil
}

// Rollback reverts the most recently applied migration and removes its ledger
// row. It returns the reverted name, or "" when nothing is applied.
func (r *Runner) Rollback(ctx context.Context) (string, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return "", err
	}

	names, err := storage.Query[string](ctx, r.db, `SELECT name FROM migrations ORDER BY id DESC LIMIT 1`)
	if err != nil {
		return "", fmt.Errorf("%w: reading ledger: %w", ErrMigrationFailed, err)
	}
	if len(names) == 0 {
		return "", nil
	}
	name := names[0]

	m, ok := r.find(name)
	if !ok || m.Down == nil {
		return "", fmt.Errorf("%w: no rollback registered for %s", ErrMigrationFailed, name)
	}

	customLog.Printf("Migrate: Rolling back migration %s", name)
	err = r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := m.Down(ctx, tx); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM migrations WHERE name = ?`, name)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: rolling back %s: %w", ErrMigrationFailed, name, err)
	}
	return name, nil
}

// Applied lists the ledger in execution order.
func (r *Runner) Applied(ctx context.Context) ([]domain.MigrationRecord, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}
	return storage.Query[domain.MigrationRecord](ctx, r.db, `SELECT id, name, executed_at FROM migrations ORDER BY id`)
}

func (r *Runner) validate() error {
	seen := make(map[string]bool, len(r.migrations))
	for _, m := range r.migrations {
		if m.Name == "" || m.Up == nil {
			return fmt.Errorf("%w: migration %q has no name or no up step", ErrMigrationFailed, m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: migration %s registered twice", ErrMigrationFailed, m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	if _, err := r.db.Execute(ctx, createLedgerSQL); err != nil {
		return fmt.Errorf("%w: creating ledger: %w", ErrMigrationFailed, err)
	}
	return nil
}

func (r *Runner) isApplied(ctx context.Context, name string) (bool, error) {
	ids, err := storage.Query[int64](ctx, r.db, `SELECT id FROM migrations WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *Runner) find(name string) (Migration, bool) {
	for _, m := range r.migrations {
		if m.Name == name {
			return m, true
		}
	}
	return Migration{}, false
}

func (r *Runner) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			customLog.Warnf("Migrate: Rollback failed: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}
