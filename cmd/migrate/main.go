// cmd/migrate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/myfood/myfood-backend/config"
	"github.com/myfood/myfood-backend/internal/logger"
	"github.com/myfood/myfood-backend/internal/migrate"
	"github.com/myfood/myfood-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] up|down|status\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	dir := flag.String("dir", "", "database directory (default: DATABASE_DIRECTORY)")
	file := flag.String("file", "", "database file name (default: DATABASE_FILE)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	dbDir, dbFile := config.LoadDatabaseLocation()
	if *dir != "" {
		dbDir = *dir
	}
	if *file != "" {
		dbFile = *file
	}

	db, err := storage.Open(dbDir, dbFile)
	if err != nil {
		customLog.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	runner := migrate.NewRunner(db, migrate.All())

	switch flag.Arg(0) {
	case "up":
		applied, err := runner.Run(ctx)
		if err != nil {
			db.Close()
			customLog.Fatalf("Migration failed: %v", err)
		}
		customLog.Printf("Applied %d migration(s): %v", len(applied), applied)
	case "down":
		name, err := runner.Rollback(ctx)
		if err != nil {
			db.Close()
			customLog.Fatalf("Rollback failed: %v", err)
		}
		if name == "" {
			customLog.Println("Nothing to roll back")
			return
		}
		customLog.Printf("Rolled back %s", name)
	case "status":
		records, err := runner.Applied(ctx)
		if err != nil {
			db.Close()
			customLog.Fatalf("Failed to read migrations: %v", err)
		}
		for _, r := range records {
			fmt.Printf("%-24s %s\n", r.Name, r.ExecutedAt.Format("2006-01-02 15:04:05"))
		}
		tables, err := db.ListTables(ctx)
		if err != nil {
			db.Close()
			customLog.Fatalf("Failed to list tables: %v", err)
		}
		fmt.Println()
		for _, t := range tables {
			fmt.Printf("%-24s %d row(s), %d column(s)\n", t.Name, t.Rows, len(t.Columns))
		}
	default:
		usage()
		os.Exit(2)
	}
}
