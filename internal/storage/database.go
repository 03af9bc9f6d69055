// internal/storage/database.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Driver registration

	"github.com/myfood/myfood-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// The DSN turns on foreign keys for every pooled connection and applies the
// journal/synchronous pragmas as each connection opens.
const dsnParams = "?_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

const createUsersTableSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		image TEXT
	);`

const createMealsTableSQL = `
	CREATE TABLE IF NOT EXISTS meals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		iconName TEXT NOT NULL,
		position INTEGER NOT NULL
	);`

const createFoodsTableSQL = `
	CREATE TABLE IF NOT EXISTS foods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		calories INTEGER,
		mealId INTEGER NOT NULL,
		date TEXT NOT NULL,
		FOREIGN KEY (mealId) REFERENCES meals (id)
	);`

// DB owns the single embedded database handle of the process.
type DB struct {
	*sqlx.DB
}

// Open creates dir if needed and opens (or creates) the SQLite file inside it.
func Open(dir, file string) (*DB, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", dir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dir, file)
	customLog.Printf("Storage: Opening database: %s", dbPath)

	db, err := sqlx.Open("sqlite3", dbPath+dsnParams)
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	return &DB{DB: db}, nil
}

// Wrap adopts an already opened *sql.DB, e.g. a sqlmock connection.
func Wrap(db *sql.DB) *DB {
	return &DB{DB: sqlx.NewDb(db, "sqlite3")}
}

// CreateSchema creates the users, meals and foods tables when they are missing.
func CreateSchema(ctx context.Context, execer sqlx.ExecerContext) error {
	for _, stmt := range []struct {
		table string
		sql   string
	}{
		{"users", createUsersTableSQL},
		{"meals", createMealsTableSQL},
		{"foods", createFoodsTableSQL},
	} {
		if _, err := execer.ExecContext(ctx, stmt.sql); err != nil {
			customLog.Warnf("Storage: Failed to create %s table: %v", stmt.table, err)
			return fmt.Errorf("failed to ensure %s table: %w", stmt.table, err)
		}
	}
	return nil
}

// Migrator applies pending schema migrations. *migrate.Runner implements it.
type Migrator interface {
	Run(ctx context.Context) ([]string, error)
}

// InitializeDatabase creates the base schema and then lets m apply every
// pending migration. The repositories read columns that only migrations add,
// so a nil m leaves a schema they cannot use. Safe to call any number of times.
func (db *DB) InitializeDatabase(ctx context.Context, m Migrator) error {
	if err := CreateSchema(ctx, db); err != nil {
		return err
	}
	customLog.Debugln("Storage: Base schema ensured.")
	if m == nil {
		return nil
	}
	applied, err := m.Run(ctx)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		customLog.Printf("Storage: Applied %d migration(s) on top of the base schema", len(applied))
	}
	return nil
}

// Query runs a read statement and maps every row onto T.
// No rows yields an empty, non-nil slice.
func Query[T any](ctx context.Context, q sqlx.QueryerContext, query string, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		customLog.Warnf("Storage: Query failed: %v | %s", err, compact(query))
		return nil, classify(err)
	}
	return rows, nil
}

// Insert runs an INSERT and returns the generated row id.
func (db *DB) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		customLog.Warnf("Storage: Insert failed: %v | %s", err, compact(query))
		return 0, classify(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve inserted id: %w", err)
	}
	return id, nil
}

// Execute runs an UPDATE/DELETE/DDL statement and returns the rows affected.
func (db *DB) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		customLog.Warnf("Storage: Statement failed: %v | %s", err, compact(query))
		return 0, classify(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to confirm statement: %w", err)
	}
	return affected, nil
}

// compact squeezes a multi-line statement onto one log line.
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
